// Package history records and reads the append-only change log of products
// and orders.
package history

import (
	"bytes"
	"encoding/json"

	"inventory-service/internal/model"

	"github.com/samber/lo"
)

// Changes is the payload of a history entry. It is one of Creation,
// Deletion, Modification or Unknown.
type Changes interface {
	Action() model.ActionType
	isChanges()
}

// FieldChange is the before and after value of one field
type FieldChange struct {
	Before any `json:"before"`
	After  any `json:"after"`
}

// FieldChanges maps field names to their change
type FieldChanges map[string]FieldChange

// ItemChange records one order line item added, modified or removed.
// Item is set for create and delete, Before and After for update.
type ItemChange struct {
	Action model.ActionType `json:"action"`
	Item   map[string]any   `json:"item,omitempty"`
	Before map[string]any   `json:"before,omitempty"`
	After  map[string]any   `json:"after,omitempty"`
}

// Creation holds the initial field values of a created entity
type Creation struct {
	Fields map[string]any
}

// Deletion holds the last snapshot of a deleted entity
type Deletion struct {
	Snapshot map[string]any
}

// Modification holds the field and line-item changes of an update
type Modification struct {
	Fields FieldChanges
	Items  []ItemChange
}

// Unknown stands in for a payload that could not be decoded
type Unknown struct {
	ActionType model.ActionType
}

func (Creation) Action() model.ActionType     { return model.ActionCreate }
func (Deletion) Action() model.ActionType     { return model.ActionDelete }
func (Modification) Action() model.ActionType { return model.ActionUpdate }
func (u Unknown) Action() model.ActionType    { return u.ActionType }

func (Creation) isChanges()     {}
func (Deletion) isChanges()     {}
func (Modification) isChanges() {}
func (Unknown) isChanges()      {}

// IsEmpty reports whether the modification changes nothing
func (m Modification) IsEmpty() bool {
	return len(m.Fields) == 0 && len(m.Items) == 0
}

// orderModification is the stored shape of an order update.
type orderModification struct {
	Order FieldChanges `json:"order"`
	Items []ItemChange `json:"items"`
}

// Encode serializes changes in the stored shape for kind:
//
//	create  product: {field: value}       order: {"order": {...}, "items": [...]}
//	update  product: {field: {before, after}}
//	        order:   {"order": {field: {before, after}}, "items": [ItemChange]}
//	delete  {"deletedProduct": {...}} or {"deletedOrder": {..., "items": [...]}}
//
// Unknown encodes as {}.
func Encode(kind model.EntityKind, changes Changes) ([]byte, error) {
	switch c := changes.(type) {
	case Creation:
		return json.Marshal(lo.Ternary(c.Fields == nil, map[string]any{}, c.Fields))
	case Deletion:
		return json.Marshal(map[string]any{kind.DeletedKey(): lo.Ternary(c.Snapshot == nil, map[string]any{}, c.Snapshot)})
	case Modification:
		fields := lo.Ternary(c.Fields == nil, FieldChanges{}, c.Fields)
		if kind == model.KindOrder {
			return json.Marshal(orderModification{
				Order: fields,
				Items: lo.Ternary(c.Items == nil, []ItemChange{}, c.Items),
			})
		}
		return json.Marshal(fields)
	}
	return []byte("{}"), nil
}

// Decode parses a stored payload. It never fails: anything that is not the
// expected shape for kind and action decodes to Unknown.
func Decode(kind model.EntityKind, action model.ActionType, raw []byte) Changes {
	unknown := Unknown{ActionType: action}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(raw, &object); err != nil || object == nil {
		return unknown
	}

	switch action {
	case model.ActionCreate:
		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err != nil {
			return unknown
		}
		return Creation{Fields: fields}

	case model.ActionDelete:
		var snapshot map[string]any
		body, ok := object[kind.DeletedKey()]
		if !ok || json.Unmarshal(body, &snapshot) != nil || snapshot == nil {
			return unknown
		}
		return Deletion{Snapshot: snapshot}

	case model.ActionUpdate:
		if kind == model.KindOrder {
			return decodeOrderModification(object, unknown)
		}
		fields, ok := decodeFieldChanges(raw)
		if !ok {
			return unknown
		}
		return Modification{Fields: fields}
	}

	return unknown
}

func decodeOrderModification(object map[string]json.RawMessage, unknown Unknown) Changes {
	m := Modification{Fields: FieldChanges{}, Items: []ItemChange{}}

	if body, ok := object["order"]; ok && !isNull(body) {
		fields, ok := decodeFieldChanges(body)
		if !ok {
			return unknown
		}
		m.Fields = fields
	}

	if body, ok := object["items"]; ok && !isNull(body) {
		if err := json.Unmarshal(body, &m.Items); err != nil {
			return unknown
		}
		for _, item := range m.Items {
			if !item.Action.Valid() {
				return unknown
			}
		}
	}

	return m
}

// decodeFieldChanges accepts only objects whose every value is an object
// carrying a before or after key.
func decodeFieldChanges(raw []byte) (FieldChanges, bool) {
	var object map[string]map[string]any
	if err := json.Unmarshal(raw, &object); err != nil || object == nil {
		return nil, false
	}

	fields := make(FieldChanges, len(object))
	for name, pair := range object {
		before, hasBefore := pair["before"]
		after, hasAfter := pair["after"]
		if pair == nil || (!hasBefore && !hasAfter) {
			return nil, false
		}
		fields[name] = FieldChange{Before: before, After: after}
	}
	return fields, true
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
