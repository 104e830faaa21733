package app

import (
	"testing"

	"txDashApp/internal/domain/model"
)

func TestConvertTransactionChannelKeepsBuffer(t *testing.T) {
	modelCh := make(chan *model.Transaction)

	dtoCh := convertTransactionChannel(modelCh, 64)
	if cap(dtoCh) != 64 {
		t.Errorf("expected buffer capacity 64, got %d", cap(dtoCh))
	}

	close(modelCh)
	if _, ok := <-dtoCh; ok {
		t.Error("expected dto channel to close when the source closes")
	}
}

func TestConvertTransactionChannelForwardsInOrder(t *testing.T) {
	modelCh := make(chan *model.Transaction, 3)
	modelCh <- &model.Transaction{TransactionID: "a"}
	modelCh <- nil // skipped
	modelCh <- &model.Transaction{TransactionID: "b"}
	close(modelCh)

	var ids []string
	for d := range convertTransactionChannel(modelCh, 3) {
		ids = append(ids, d.TransactionID)
	}

	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("expected [a b], got %v", ids)
	}
}
