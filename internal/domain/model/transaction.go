package model

// CreditCard holds the card details attached to a transaction's user.
type CreditCard struct {
	Number         string `json:"number"`
	ExpirationDate string `json:"expiration_date"`
	Provider       string `json:"provider"`
	SecurityCode   string `json:"security_code"`
}

// User identifies the account holder behind a transaction.
type User struct {
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	PhoneNumber string     `json:"phone_number"`
	Address     string     `json:"address"`
	IPAddress   string     `json:"ip_address"`
	CreditCard  CreditCard `json:"credit_card"`
}

// Location is where a transaction took place.
type Location struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// TransactionDetails holds the monetary and merchant facts of a transaction.
type TransactionDetails struct {
	Amount           float64  `json:"amount"`
	Currency         string   `json:"currency"`
	Timestamp        float64  `json:"timestamp"` // unix seconds
	Merchant         string   `json:"merchant"`
	MerchantCategory string   `json:"merchant_category"`
	Location         Location `json:"location"`
	TransactionType  string   `json:"transaction_type"`
}

// FraudDetection carries the outcome of the fraud rules for a transaction.
type FraudDetection struct {
	Flagged bool   `json:"flagged"`
	Reason  string `json:"reason,omitempty"`
}

// Transaction represents one payment event in the domain. The JSON field
// names are the wire contract shared with the dashboard client.
type Transaction struct {
	TransactionID string             `json:"transaction_id"`
	User          User               `json:"user"`
	Details       TransactionDetails `json:"transaction_details"`
	Fraud         FraudDetection     `json:"fraud_detection"`
}
