package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"docsign/internal/model"
)

func TestCanDelete(t *testing.T) {
	doc := model.Document{Owner: "0xA", UsersToSign: []string{"0xB"}}

	tests := []struct {
		identity string
		want     bool
	}{
		{"0xA", true},
		{"0xa", true},
		{"0xB", false},
		{"0xC", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.identity, func(t *testing.T) {
			assert.Equal(t, tt.want, CanDelete(doc, tt.identity))
		})
	}
}

func TestCanSign(t *testing.T) {
	tests := []struct {
		name     string
		doc      model.Document
		identity string
		want     bool
	}{
		{
			name:     "required signer who has not signed",
			doc:      model.Document{Owner: "0xA", UsersToSign: []string{"0xB"}},
			identity: "0xB",
			want:     true,
		},
		{
			name:     "required signer who already signed",
			doc:      model.Document{Owner: "0xA", UsersToSign: []string{"0xB"}, Signatures: []string{"0xB"}},
			identity: "0xB",
			want:     false,
		},
		{
			name:     "owner is not a signer",
			doc:      model.Document{Owner: "0xA", UsersToSign: []string{"0xB"}},
			identity: "0xA",
			want:     false,
		},
		{
			name:     "stranger",
			doc:      model.Document{Owner: "0xA", UsersToSign: []string{"0xB"}},
			identity: "0xC",
			want:     false,
		},
		{
			name:     "empty identity",
			doc:      model.Document{Owner: "0xA", UsersToSign: []string{"0xB"}},
			identity: "",
			want:     false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanSign(tt.doc, tt.identity))
		})
	}
}

// Exhaustive check of both predicates over a small address universe.
func TestPredicatesMatchDefinition(t *testing.T) {
	addrs := []string{"0x1", "0x2", "0x3"}
	subsets := [][]string{{}, {"0x1"}, {"0x2"}, {"0x1", "0x2"}, {"0x2", "0x3"}, {"0x1", "0x2", "0x3"}}

	for _, owner := range addrs {
		for _, toSign := range subsets {
			for _, signed := range subsets {
				doc := model.Document{Owner: owner, UsersToSign: toSign, Signatures: signed}
				for _, id := range addrs {
					assert.Equal(t, id == owner, CanDelete(doc, id))
					assert.Equal(t, contains(toSign, id) && !contains(signed, id), CanSign(doc, id))
				}
			}
		}
	}
}

func TestAnnotate(t *testing.T) {
	doc := model.Document{Owner: "0xA", UsersToSign: []string{"0xB"}}

	owner := Annotate(doc, "0xA")
	assert.True(t, owner.CanDelete)
	assert.False(t, owner.CanSign)

	signer := Annotate(doc, "0xB")
	assert.False(t, signer.CanDelete)
	assert.True(t, signer.CanSign)
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
