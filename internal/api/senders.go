package api

import (
	"strings"

	"github.com/tracknest/ingest/internal/models"
)

// Payment methods recorded for sources that do not name one.
var (
	StatementPaymentMethod = models.PaymentMethod{Name: "Bank Transfer", Icon: "Landmark"}
	QuickPaymentMethod     = models.PaymentMethod{Name: "Cash", Icon: "Wallet"}
	DefaultSMSMethod       = models.PaymentMethod{Name: "UPI"}
)

// senderMethods maps a token in the SMS sender ID to the app or bank that
// sent it. Checked in order.
var senderMethods = []struct {
	token  string
	method models.PaymentMethod
}{
	{"SLICE", models.PaymentMethod{Name: "Slice", Icon: "https://upload.wikimedia.org/wikipedia/en/thumb/9/91/Slice_logo.svg/1200px-Slice_logo.svg.png"}},
	{"PAYTM", models.PaymentMethod{Name: "Paytm", Icon: "https://assetscdn1.paytm.com/images/catalog/view/310944/1697527183231.png"}},
	{"PHONEPE", models.PaymentMethod{Name: "PhonePe", Icon: "https://download.logo.wine/logo/PhonePe/PhonePe-Logo.wine.png"}},
	{"GPAY", models.PaymentMethod{Name: "GPay", Icon: "https://upload.wikimedia.org/wikipedia/commons/thumb/f/f2/Google_Pay_Logo.svg/2560px-Google_Pay_Logo.svg.png"}},
	{"HDFC", models.PaymentMethod{Name: "HDFC Bank", Icon: "https://www.hdfcbank.com/static/brand/logo.png"}},
	{"SBI", models.PaymentMethod{Name: "SBI", Icon: "https://upload.wikimedia.org/wikipedia/en/thumb/5/58/State_Bank_of_India_logo.svg/1200px-State_Bank_of_India_logo.svg.png"}},
	{"ICICI", models.PaymentMethod{Name: "ICICI Bank", Icon: "https://upload.wikimedia.org/wikipedia/commons/1/12/ICICI_Bank_Logo.svg"}},
	{"AXIS", models.PaymentMethod{Name: "Axis Bank", Icon: "https://upload.wikimedia.org/wikipedia/commons/thumb/3/30/Axis_Bank_logo.svg/2560px-Axis_Bank_logo.svg.png"}},
	{"KOTAK", models.PaymentMethod{Name: "Kotak Bank", Icon: "https://upload.wikimedia.org/wikipedia/en/thumb/8/8f/Kotak_Mahindra_Bank_logo.svg/1200px-Kotak_Mahindra_Bank_logo.svg.png"}},
}

// PaymentMethodForSender resolves an SMS sender ID such as "VM-HDFCBK" to a
// payment method, falling back to DefaultSMSMethod.
func PaymentMethodForSender(sender string) models.PaymentMethod {
	sender = strings.ToUpper(sender)
	for _, s := range senderMethods {
		if strings.Contains(sender, s.token) {
			return s.method
		}
	}
	return DefaultSMSMethod
}
