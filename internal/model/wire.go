package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Wire shapes of the persisted document. Key order matters for round trips with
// files written by other tools: id, name, items.
type wireDevice struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name"`
}

type wireArm struct {
	ID    string       `json:"id" validate:"required"`
	Name  string       `json:"name"`
	Items []wireDevice `json:"items" validate:"dive"`
}

type wireStation struct {
	ID    string    `json:"id" validate:"required"`
	Name  string    `json:"name"`
	Items []wireArm `json:"items" validate:"dive"`
}

// ErrNullDocument is returned when the document body is JSON null.
var ErrNullDocument = errors.New("document is null")

// SchemaError reports a decoded document that does not match the station schema.
type SchemaError struct {
	Field string
	Rule  string
}

func (e SchemaError) Error() string {
	return fmt.Sprintf("%s: failed %q", e.Field, e.Rule)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (e *Entity) MarshalJSON() ([]byte, error) {
	if e.kind == KindDevice {
		return json.Marshal(wireDevice{ID: e.id, Name: e.Name})
	}
	items := e.items
	if items == nil {
		items = []*Entity{}
	}
	return json.Marshal(struct {
		ID    string    `json:"id"`
		Name  string    `json:"name"`
		Items []*Entity `json:"items"`
	}{ID: e.id, Name: e.Name, Items: items})
}

func (s *Stations) MarshalJSON() ([]byte, error) {
	items := []*Entity{}
	if s != nil && s.items != nil {
		items = s.items
	}
	return json.Marshal(items)
}

func (s *Stations) UnmarshalJSON(b []byte) error {
	var ws *[]wireStation
	if err := json.Unmarshal(b, &ws); err != nil {
		return err
	}
	if ws == nil {
		return ErrNullDocument
	}
	out := make([]*Entity, 0, len(*ws))
	for i := range *ws {
		st := &(*ws)[i]
		if err := validate.Struct(st); err != nil {
			return schemaError(i, err)
		}
		out = append(out, st.entity())
	}
	s.items = out
	return nil
}

// DecodeStations parses a persisted document.
func DecodeStations(b []byte) (*Stations, error) {
	var s Stations
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Decode parses a single entity subtree of the given kind.
func Decode(kind Kind, b []byte) (*Entity, error) {
	var (
		w   interface{ entity() *Entity }
		err error
	)
	switch kind {
	case KindStation:
		var ws wireStation
		err = json.Unmarshal(b, &ws)
		w = &ws
	case KindArm:
		var wa wireArm
		err = json.Unmarshal(b, &wa)
		w = &wa
	case KindDevice:
		var wd wireDevice
		err = json.Unmarshal(b, &wd)
		w = &wd
	default:
		return nil, fmt.Errorf("unknown kind: %s", kind)
	}
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(w); err != nil {
		return nil, schemaError(0, err)
	}
	return w.entity(), nil
}

func schemaError(index int, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	return SchemaError{Field: fmt.Sprintf("[%d].%s", index, field), Rule: fe.Tag()}
}

func (w *wireStation) entity() *Entity {
	e := NewStation(w.ID, w.Name)
	for i := range w.Items {
		e.items = append(e.items, w.Items[i].entity())
	}
	return e
}

func (w *wireArm) entity() *Entity {
	e := New(KindArm, w.ID, w.Name)
	for i := range w.Items {
		e.items = append(e.items, w.Items[i].entity())
	}
	return e
}

func (w *wireDevice) entity() *Entity {
	return New(KindDevice, w.ID, w.Name)
}
