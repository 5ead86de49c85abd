// Package policy holds the client-side authorization checks consulted before
// a mutating request is dispatched. They save a round trip; the ledger module
// enforces the same rules authoritatively.
package policy

import "docsign/internal/model"

// CanSign reports whether identity is a required signer who has not signed yet.
func CanSign(doc model.Document, identity string) bool {
	return doc.RequiresSignatureFrom(identity) && !doc.HasSigned(identity)
}

// CanDelete reports whether identity owns the document.
func CanDelete(doc model.Document, identity string) bool {
	if identity == "" {
		return false
	}
	return model.NormalizeAddress(doc.Owner) == model.NormalizeAddress(identity)
}

// Annotate fills the derived CanSign/CanDelete flags of doc for identity.
func Annotate(doc model.Document, identity string) model.Document {
	doc.CanSign = CanSign(doc, identity)
	doc.CanDelete = CanDelete(doc, identity)
	return doc
}
