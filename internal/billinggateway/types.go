package billinggateway

// Статусы платежа на стороне шлюза.
const (
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusPending   = "pending"
	PaymentStatusCanceled  = "canceled"
)

// Payment — состояние платежа, возвращаемое шлюзом.
type Payment struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount struct {
		Value    string `json:"value"`    // сумма строкой, например "100.00"
		Currency string `json:"currency"` // валюта
	} `json:"amount"`
	Metadata map[string]string `json:"metadata"` // user_uid, plan и др.
}
