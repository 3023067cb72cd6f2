package concurrency

import (
	"github.com/coredb-io/coredb/types"
)

// TransactionState tracks where a transaction sits in its lifecycle, for
// the benefit of a future transaction/lock manager. The storage core itself
// never inspects it.
type TransactionState int

const (
	Growing TransactionState = iota
	Shrinking
	Committed
	Aborted
)

// Transaction is an opaque transaction handle. The storage core does not
// take it: no buffer pool manager or extendible hash table method has a
// Transaction parameter. It carries no WAL records, page sets, or lock
// sets; none of that machinery lives here.
type Transaction struct {
	txnId   types.TxnID
	state   TransactionState
	prevLSN types.LSN
}

// NewTransaction starts a transaction in the Growing state with no prior
// log record.
func NewTransaction(txnId types.TxnID) *Transaction {
	return &Transaction{
		txnId:   txnId,
		state:   Growing,
		prevLSN: types.InvalidLSN,
	}
}

func (txn *Transaction) GetTransactionId() types.TxnID { return txn.txnId }

func (txn *Transaction) GetState() TransactionState       { return txn.state }
func (txn *Transaction) SetState(state TransactionState) { txn.state = state }

func (txn *Transaction) GetPrevLSN() types.LSN      { return txn.prevLSN }
func (txn *Transaction) SetPrevLSN(lsn types.LSN) { txn.prevLSN = lsn }
