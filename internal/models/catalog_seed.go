package models

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultCatalog 返回店铺初始商品
func DefaultCatalog() []Product {
	return []Product{
		{ID: "gift_lux_12", Name: "精品咖啡禮盒（12入）", Img: "/images/gift_lux_12.jpg", Price: 800, Stock: 20},
		{ID: "gift_lux_20", Name: "精品咖啡禮盒（20入）", Img: "/images/gift_lux_20.jpg", Price: 1200, Stock: 15},
		{ID: "gift_std_12", Name: "經典咖啡禮盒（12入）", Img: "/images/gift_std_12.jpg", Price: 680, Stock: 30},
		{ID: "gift_std_20", Name: "經典咖啡禮盒（20入）", Img: "/images/gift_std_20.jpg", Price: 1080, Stock: 20},
		{ID: "drip_special", Name: "Dawit Special 濾掛", Img: "/images/drip_special.jpg", Price: 50, Stock: 200},
		{ID: "drip_djimmah", Name: "衣索比亞 吉瑪 濾掛", Img: "/images/drip_djimmah.jpg", Price: 50, Stock: 200},
		{ID: "drip_yirg", Name: "衣索比亞 耶加雪菲 濾掛", Img: "/images/drip_yirg.jpg", Price: 50, Stock: 200},
		{ID: "drip_yirg_cl", Name: "耶加雪菲 經典 濾掛", Img: "/images/drip_yirg_cl.jpg", Price: 50, Stock: 200},
		{ID: "beans_gesha_100", Name: "藝伎咖啡豆 100g", Img: "/images/beans_gesha_100.jpg", Price: 700, Stock: 10},
		{ID: "beans_yirg_200", Name: "耶加雪菲咖啡豆 200g", Img: "/images/beans_yirg_200.jpg", Price: 500, Stock: 25},
		{ID: "beans_djim_200", Name: "吉瑪咖啡豆 200g", Img: "/images/beans_djim_200.jpg", Price: 400, Stock: 25},
	}
}

// SeedCatalog 商品表为空时写入初始商品，返回写入数量
func SeedCatalog(db *gorm.DB) (int, error) {
	if db == nil {
		db = DB
	}
	var count int64
	if err := db.Model(&Product{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}
	return UpsertCatalog(db, DefaultCatalog(), false)
}

// UpsertCatalog 批量写入商品；overwrite 为 true 时覆盖已有商品的名称、图片与价格
func UpsertCatalog(db *gorm.DB, products []Product, overwrite bool) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}
	onConflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}
	if overwrite {
		onConflict = clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "img", "price", "updated_at"}),
		}
	}
	result := db.Clauses(onConflict).Create(&products)
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}
