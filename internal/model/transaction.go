package model

import "time"

// EntryFunction names a function exposed by the document registry module.
type EntryFunction string

const (
	FnCreateDocument  EntryFunction = "CreateDocument"
	FnSignDocument    EntryFunction = "SignDocument"
	FnDeleteDocument  EntryFunction = "DeleteDocument"
	FnGetAllDocuments EntryFunction = "getAllDocuments"
)

// Mutating reports whether calling fn changes ledger state and therefore needs a signature.
func (fn EntryFunction) Mutating() bool {
	switch fn {
	case FnCreateDocument, FnSignDocument, FnDeleteDocument:
		return true
	}
	return false
}

// EntryFunctionPayloadType is the payload discriminator wallets expect.
const EntryFunctionPayloadType = "entry_function_payload"

// Payload is a canonical entry-function call: fully qualified function id,
// generic type list and positional arguments in declaration order.
type Payload struct {
	Type          string   `json:"type,omitempty"`
	Function      string   `json:"function"`
	TypeArguments []string `json:"type_arguments"`
	Arguments     []any    `json:"arguments"`
}

// TxStatus is a lifecycle state of a PendingTransaction.
type TxStatus string

const (
	TxBuilding          TxStatus = "building"
	TxAwaitingSignature TxStatus = "awaiting_signature"
	TxSubmitted         TxStatus = "submitted"
	TxConfirmed         TxStatus = "confirmed"
	TxFailed            TxStatus = "failed"
)

// Terminal reports whether no further transition can follow s.
func (s TxStatus) Terminal() bool {
	return s == TxConfirmed || s == TxFailed
}

// PendingTransaction tracks one mutating request from the moment it is
// invoked until its terminal status has been reported.
type PendingTransaction struct {
	ID         string        `json:"id"`
	Identity   string        `json:"identity"`
	Function   EntryFunction `json:"function"`
	Payload    Payload       `json:"payload"`
	Status     TxStatus      `json:"status"`
	ResultHash string        `json:"result_hash,omitempty"`
	Error      string        `json:"error,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}
