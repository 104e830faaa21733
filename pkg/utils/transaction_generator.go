package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"txDashApp/internal/domain/model"
	"txDashApp/internal/domain/service"
)

// countryCurrencies maps countries to their currencies for generated transactions.
var countryCurrencies = map[string]string{
	"United States":        "USD",
	"Canada":               "CAD",
	"United Kingdom":       "GBP",
	"Germany":              "EUR",
	"France":               "EUR",
	"Japan":                "JPY",
	"Australia":            "AUD",
	"India":                "INR",
	"Brazil":               "BRL",
	"China":                "CNY",
	"South Africa":         "ZAR",
	"United Arab Emirates": "AED",
	"Saudi Arabia":         "SAR",
	"Singapore":            "SGD",
	"South Korea":          "KRW",
	"Russia":               "RUB",
	"Turkey":               "Lira",
}

var merchantCategories = []string{
	"Electronics", "Groceries", "Clothing", "Restaurants", "Travel",
	"Healthcare", "Automotive", "Entertainment", "Utilities", "Education",
	"Books", "Furniture", "Sports", "Beauty", "Jewelry", "Toys",
	"Hardware", "Software", "Music", "Movies", "Pet Supplies",
	"Home Improvement", "Office Supplies", "Gifts", "Food Delivery",
	"Subscription Services", "Online Services", "Fitness", "Insurance",
	"Real Estate", "Legal Services", "Financial Services", "Charity", "Other",
}

var transactionTypes = []string{"POS", "Online", "ATM Withdrawal", "Mobile Payment", "Recurring Payment"}

var firstNames = []string{"James", "Mary", "Robert", "Patricia", "John", "Jennifer", "Michael", "Linda", "David", "Elizabeth"}
var lastNames = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Wilson", "Moore"}
var merchantSuffixes = []string{"Inc", "LLC", "Group", "Ltd", "and Sons", "Co"}
var cardProviders = []string{"VISA 16 digit", "Mastercard", "American Express", "Discover", "JCB 16 digit"}

// TransactionGenerator produces randomized transactions for demo and test use
type TransactionGenerator struct {
	rng      *rand.Rand
	detector *service.FraudDetector
}

// NewTransactionGenerator creates a generator seeded from the current time
func NewTransactionGenerator() *TransactionGenerator {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &TransactionGenerator{
		rng:      rng,
		detector: service.NewFraudDetector(rng),
	}
}

// GenerateTransactions creates a specified number of random transactions
func (g *TransactionGenerator) GenerateTransactions(count int) []*model.Transaction {
	txs := make([]*model.Transaction, count)
	for i := 0; i < count; i++ {
		txs[i] = g.GenerateTransaction()
	}
	return txs
}

// GenerateTransaction creates a single random transaction with fraud rules applied
func (g *TransactionGenerator) GenerateTransaction() *model.Transaction {
	countries := make([]string, 0, len(countryCurrencies))
	for c := range countryCurrencies {
		countries = append(countries, c)
	}
	country := countries[g.rng.Intn(len(countries))]
	currency := countryCurrencies[country]

	// Amounts between 5 and 10000, rounded to cents
	amount := float64(int((5+g.rng.Float64()*9995)*100)) / 100

	name := g.pick(firstNames) + " " + g.pick(lastNames)
	merchant := g.pick(lastNames) + " " + g.pick(merchantSuffixes)

	return &model.Transaction{
		TransactionID: uuid.New().String(),
		User: model.User{
			Name:        name,
			Email:       fmt.Sprintf("user%d@example.com", g.rng.Intn(10000)),
			PhoneNumber: fmt.Sprintf("+1-%03d-%03d-%04d", g.rng.Intn(900)+100, g.rng.Intn(900)+100, g.rng.Intn(10000)),
			Address:     fmt.Sprintf("%d Main Street, Springfield", g.rng.Intn(9000)+100),
			IPAddress:   fmt.Sprintf("%d.%d.%d.%d", g.rng.Intn(223)+1, g.rng.Intn(256), g.rng.Intn(256), g.rng.Intn(254)+1),
			CreditCard: model.CreditCard{
				Number:         fmt.Sprintf("%016d", g.rng.Int63n(1e16)),
				ExpirationDate: fmt.Sprintf("%02d/%02d", g.rng.Intn(12)+1, 26+g.rng.Intn(5)),
				Provider:       g.pick(cardProviders),
				SecurityCode:   fmt.Sprintf("%03d", g.rng.Intn(1000)),
			},
		},
		Details: model.TransactionDetails{
			Amount:           amount,
			Currency:         currency,
			Timestamp:        float64(time.Now().UnixMilli()) / 1000,
			Merchant:         merchant,
			MerchantCategory: g.pick(merchantCategories),
			Location: model.Location{
				City:    "Springfield",
				State:   "Illinois",
				Country: country,
			},
			TransactionType: g.pick(transactionTypes),
		},
		Fraud: g.detector.Evaluate(amount, country),
	}
}

func (g *TransactionGenerator) pick(options []string) string {
	return options[g.rng.Intn(len(options))]
}
