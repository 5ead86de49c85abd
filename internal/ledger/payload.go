package ledger

import (
	"strings"

	"docsign/internal/model"
)

// Module identifies the on-ledger document registry module.
type Module struct {
	Address string
	Name    string
}

// FunctionID returns the fully qualified id "<address>::<module>::<function>".
func (m Module) FunctionID(fn model.EntryFunction) string {
	return strings.Join([]string{m.Address, m.Name, string(fn)}, "::")
}

// EntryPayload builds the canonical payload of a mutating call. Arguments are
// positional and must follow the function's declared parameter order.
func (m Module) EntryPayload(fn model.EntryFunction, args ...any) model.Payload {
	if args == nil {
		args = []any{}
	}
	return model.Payload{
		Type:          model.EntryFunctionPayloadType,
		Function:      m.FunctionID(fn),
		TypeArguments: []string{},
		Arguments:     args,
	}
}

// CreateDocumentPayload registers an uploaded file: name, content id, document id, url.
func (m Module) CreateDocumentPayload(name, contentID, id, url string) model.Payload {
	return m.EntryPayload(model.FnCreateDocument, name, contentID, id, url)
}

// SignDocumentPayload adds the caller's signature to a document.
func (m Module) SignDocumentPayload(id string) model.Payload {
	return m.EntryPayload(model.FnSignDocument, id)
}

// DeleteDocumentPayload removes a document; only its owner may do so.
func (m Module) DeleteDocumentPayload(id string) model.Payload {
	return m.EntryPayload(model.FnDeleteDocument, id)
}

// ViewRequest builds the stateless request for a read-only function.
func (m Module) ViewRequest(fn model.EntryFunction, args ...any) ViewRequest {
	if args == nil {
		args = []any{}
	}
	return ViewRequest{
		Function:      m.FunctionID(fn),
		TypeArguments: []string{},
		Arguments:     args,
	}
}
