package model

import "time"

// Document is a ledger-registered file awaiting (or holding) signatures.
// The ledger is the source of truth; values of this type are read-through copies.
type Document struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ContentID   string    `json:"content_id"`
	URL         string    `json:"url"`
	Owner       string    `json:"owner"`
	Signatures  []string  `json:"signatures"`
	UsersToSign []string  `json:"users_to_sign"`
	CreatedAt   time.Time `json:"created_at"`

	// Derived at read time for the current identity.
	CanSign   bool `json:"can_sign"`
	CanDelete bool `json:"can_delete"`
}

// HasSigned reports whether addr already appears in the signature set.
func (d Document) HasSigned(addr string) bool {
	return containsAddress(d.Signatures, addr)
}

// RequiresSignatureFrom reports whether addr is part of the required signer set.
func (d Document) RequiresSignatureFrom(addr string) bool {
	return containsAddress(d.UsersToSign, addr)
}

// AddSignature records addr as a signer. Signatures form a set, so adding an
// existing signer leaves the document unchanged.
func (d *Document) AddSignature(addr string) {
	if addr == "" || d.HasSigned(addr) {
		return
	}
	d.Signatures = append(d.Signatures, addr)
}

// Finalized reports whether every required signer has signed.
func (d Document) Finalized() bool {
	for _, u := range d.UsersToSign {
		if !d.HasSigned(u) {
			return false
		}
	}
	return true
}

func containsAddress(set []string, addr string) bool {
	if addr == "" {
		return false
	}
	want := NormalizeAddress(addr)
	for _, s := range set {
		if NormalizeAddress(s) == want {
			return true
		}
	}
	return false
}
