package email

import (
	"fmt"
	"html"
	"strconv"
	"strings"
)

// OrderItem represents an item in an order for email purposes
type OrderItem struct {
	ProductID int64
	Name      string
	Quantity  int
	Price     int
}

// Order is the part of a placed order the confirmation mail shows
type Order struct {
	ID            int64
	CustomerName  string
	Address       string
	Phone         string
	PaymentMethod string
	Items         []OrderItem
	Subtotal      int
	ShippingFee   int
	Total         int
}

// Contact is the part of an inquiry the acknowledgement mail echoes back
type Contact struct {
	ID      int64
	Name    string
	Message string
}

var paymentLabels = map[string]string{
	"cod":     "Thanh toán khi nhận hàng (COD)",
	"bank":    "Chuyển khoản ngân hàng",
	"momo":    "Ví MoMo",
	"zalopay": "ZaloPay",
}

// PaymentLabel returns the customer-facing name of a payment method
func PaymentLabel(method string) string {
	if label, ok := paymentLabels[method]; ok {
		return label
	}
	return method
}

// BuildOrderConfirmationBody builds the HTML body for order confirmation email
func BuildOrderConfirmationBody(o Order) string {
	var itemsHTML strings.Builder
	for _, item := range o.Items {
		name := item.Name
		if name == "" {
			name = "#" + strconv.FormatInt(item.ProductID, 10)
		}
		itemsHTML.WriteString(fmt.Sprintf(
			`<tr>
				<td style="padding: 12px; border-bottom: 1px solid #eee;">%s</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: center;">%d</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">%s</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">%s</td>
			</tr>`,
			html.EscapeString(name),
			item.Quantity,
			FormatVND(item.Price),
			FormatVND(item.Price*item.Quantity),
		))
	}

	shipping := FormatVND(o.ShippingFee)
	if o.ShippingFee == 0 {
		shipping = "Miễn phí"
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: #0ea5e9; padding: 30px; border-radius: 10px 10px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 24px;">Cảm ơn bạn đã đặt hàng tại LiteBay</h1>
	</div>

	<div style="background: #fff; padding: 30px; border: 1px solid #eee; border-top: none; border-radius: 0 0 10px 10px;">
		<p style="margin-top: 0;">Xin chào %s, đơn hàng của bạn đã được tiếp nhận và đang chờ xử lý.</p>

		<div style="background: #f8f9fa; padding: 15px; border-radius: 5px; margin: 20px 0;">
			<p style="margin: 0; font-size: 14px; color: #666;">Mã đơn hàng</p>
			<p style="margin: 5px 0 0 0; font-size: 18px; font-weight: bold; font-family: monospace;">#%d</p>
		</div>

		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background: #f8f9fa;">
					<th style="padding: 12px; text-align: left; font-weight: 600;">Sản phẩm</th>
					<th style="padding: 12px; text-align: center; font-weight: 600;">Số lượng</th>
					<th style="padding: 12px; text-align: right; font-weight: 600;">Đơn giá</th>
					<th style="padding: 12px; text-align: right; font-weight: 600;">Thành tiền</th>
				</tr>
			</thead>
			<tbody>
				%s
			</tbody>
		</table>

		<table style="width: 100%%; padding: 20px; background: #f8f9fa; border-radius: 5px;">
			<tr><td>Tạm tính</td><td style="text-align: right;">%s</td></tr>
			<tr><td>Phí vận chuyển</td><td style="text-align: right;">%s</td></tr>
			<tr><td style="font-weight: bold;">Tổng cộng</td><td style="text-align: right; font-size: 20px; font-weight: bold; color: #0ea5e9;">%s</td></tr>
		</table>

		<p>Phương thức thanh toán: %s</p>
		<p>Giao đến: %s (%s)</p>

		<hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">

		<p style="font-size: 12px; color: #999; margin-bottom: 0;">
			Email này được gửi tự động. Vui lòng không trả lời email này.
		</p>
	</div>
</body>
</html>`,
		html.EscapeString(o.CustomerName),
		o.ID,
		itemsHTML.String(),
		FormatVND(o.Subtotal),
		shipping,
		FormatVND(o.Total),
		html.EscapeString(PaymentLabel(o.PaymentMethod)),
		html.EscapeString(o.Address),
		html.EscapeString(o.Phone),
	)
}

// BuildContactAcknowledgementBody builds the HTML reply to a contact form submission
func BuildContactAcknowledgementBody(c Contact) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<p>Xin chào %s,</p>
	<p>Cảm ơn bạn đã liên hệ với LiteBay. Chúng tôi sẽ phản hồi sớm nhất có thể.</p>
	<blockquote style="border-left: 3px solid #0ea5e9; margin: 20px 0; padding: 10px 15px; background: #f8f9fa;">%s</blockquote>
	<p style="font-size: 12px; color: #999;">Mã yêu cầu #%d</p>
</body>
</html>`,
		html.EscapeString(c.Name),
		strings.ReplaceAll(html.EscapeString(c.Message), "\n", "<br>"),
		c.ID,
	)
}

// FormatVND renders an amount with dot thousands separators, e.g. 1.500.000 ₫
func FormatVND(n int) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	str := strconv.Itoa(n)

	var result strings.Builder
	remainder := len(str) % 3
	if remainder > 0 {
		result.WriteString(str[:remainder])
	}
	for i := remainder; i < len(str); i += 3 {
		if result.Len() > 0 {
			result.WriteString(".")
		}
		result.WriteString(str[i : i+3])
	}

	return sign + result.String() + " ₫"
}
