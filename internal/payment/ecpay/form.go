package ecpay

import (
	"bytes"
	"html/template"
)

var autoSubmitTemplate = template.Must(template.New("ecpay_checkout").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Redirecting to payment</title></head>
<body onload="document.forms[0].submit()">
<form id="ecpay-checkout" method="post" action="{{.Action}}">
{{- range .Fields}}
<input type="hidden" name="{{.Name}}" value="{{.Value}}">
{{- end}}
<noscript><button type="submit">Continue to payment</button></noscript>
</form>
</body>
</html>
`))

// RenderAutoSubmitForm 渲染自动提交到收银台的 HTML 表单
func RenderAutoSubmitForm(form *CheckoutForm) ([]byte, error) {
	var buf bytes.Buffer
	if err := autoSubmitTemplate.Execute(&buf, form); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
