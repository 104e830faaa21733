package dto

import (
	"txDashApp/internal/domain/model"
)

// TransactionDTO represents the data transfer object carried on the queue
// and the WebSocket wire. The field names match the external JSON contract.
type TransactionDTO struct {
	TransactionID string                   `json:"transaction_id"`
	User          model.User               `json:"user"`
	Details       model.TransactionDetails `json:"transaction_details"`
	Fraud         model.FraudDetection     `json:"fraud_detection"`
}

// ToModel converts a TransactionDTO to a domain model
func (dto *TransactionDTO) ToModel() *model.Transaction {
	return &model.Transaction{
		TransactionID: dto.TransactionID,
		User:          dto.User,
		Details:       dto.Details,
		Fraud:         dto.Fraud,
	}
}

// FromModel creates a TransactionDTO from a domain model
func FromModel(tx *model.Transaction) *TransactionDTO {
	return &TransactionDTO{
		TransactionID: tx.TransactionID,
		User:          tx.User,
		Details:       tx.Details,
		Fraud:         tx.Fraud,
	}
}

func FromModels(txs []*model.Transaction) []*TransactionDTO {
	dtos := make([]*TransactionDTO, len(txs))
	for i, tx := range txs {
		dtos[i] = FromModel(tx)
	}
	return dtos
}
