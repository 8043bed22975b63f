package service

// ShippingPolicy 运费规则：小计低于门槛收取固定运费，空车不收运费
type ShippingPolicy struct {
	Fee                   int64
	FreeShippingThreshold int64
}

// Calculate 计算运费
func (p ShippingPolicy) Calculate(subtotal int64) int64 {
	if subtotal <= 0 || subtotal >= p.FreeShippingThreshold {
		return 0
	}
	return p.Fee
}
