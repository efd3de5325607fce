package entity

import (
	"errors"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ValueType tipo declarado de un atributo.
type ValueType string

const (
	ValueTypeText    ValueType = "text"
	ValueTypeNumber  ValueType = "number"
	ValueTypeBoolean ValueType = "boolean"
	ValueTypeEnum    ValueType = "enum"
)

// Valid indica si el tipo pertenece al conjunto cerrado.
func (t ValueType) Valid() bool {
	switch t {
	case ValueTypeText, ValueTypeNumber, ValueTypeBoolean, ValueTypeEnum:
		return true
	}
	return false
}

// ErrInvalidValue el valor crudo no se puede interpretar con el tipo declarado.
var ErrInvalidValue = errors.New("valor no compatible con el tipo del atributo")

// Value unión etiquetada sobre {texto, número, booleano, opción}. Solo el campo
// correspondiente a Kind es significativo. El valor cero (Kind vacío) es "sin valor".
type Value struct {
	Kind   ValueType
	Text   string
	Number decimal.Decimal
	Bool   bool
	Option string
}

// IsZero indica ausencia de valor.
func (v Value) IsZero() bool { return v.Kind == "" }

// Key clave canónica para comparar valores distintos entre fuentes.
func (v Value) Key() string {
	switch v.Kind {
	case ValueTypeText:
		return "t:" + strings.ToLower(v.Text)
	case ValueTypeNumber:
		return "n:" + v.Number.String()
	case ValueTypeBoolean:
		if v.Bool {
			return "b:true"
		}
		return "b:false"
	case ValueTypeEnum:
		return "e:" + strings.ToLower(v.Option)
	}
	return ""
}

// Raw representación textual canónica (la que se persiste).
func (v Value) Raw() string {
	switch v.Kind {
	case ValueTypeText:
		return v.Text
	case ValueTypeNumber:
		return v.Number.String()
	case ValueTypeBoolean:
		if v.Bool {
			return "true"
		}
		return "false"
	case ValueTypeEnum:
		return v.Option
	}
	return ""
}

// Equal compara por clave canónica.
func (v Value) Equal(o Value) bool { return v.Key() == o.Key() }

// DecodeValue reconstruye un Value desde su forma persistida (Kind + Raw).
func DecodeValue(kind ValueType, raw string) Value {
	if kind == "" {
		return Value{}
	}
	switch kind {
	case ValueTypeNumber:
		n, err := decimal.NewFromString(raw)
		if err != nil {
			return Value{}
		}
		return Value{Kind: kind, Number: n}
	case ValueTypeBoolean:
		return Value{Kind: kind, Bool: raw == "true"}
	case ValueTypeEnum:
		return Value{Kind: kind, Option: raw}
	}
	return Value{Kind: ValueTypeText, Text: raw}
}

var (
	trueWords  = map[string]bool{"true": true, "yes": true, "y": true, "si": true, "sí": true, "1": true, "да": true, "x": true}
	falseWords = map[string]bool{"false": true, "no": true, "n": true, "0": true, "нет": true, "-": true}
)

// ParseValue interpreta el valor crudo de un proveedor según el tipo declarado.
// Un crudo vacío devuelve Value{} sin error.
func ParseValue(t ValueType, raw string, options []string) (Value, error) {
	s := strings.Join(strings.Fields(raw), " ")
	if s == "" {
		return Value{}, nil
	}
	switch t {
	case ValueTypeText, "":
		return Value{Kind: ValueTypeText, Text: s}, nil
	case ValueTypeNumber:
		n, ok := parseLeadingNumber(s)
		if !ok {
			return Value{}, ErrInvalidValue
		}
		return Value{Kind: ValueTypeNumber, Number: n}, nil
	case ValueTypeBoolean:
		l := strings.ToLower(s)
		if trueWords[l] {
			return Value{Kind: ValueTypeBoolean, Bool: true}, nil
		}
		if falseWords[l] {
			return Value{Kind: ValueTypeBoolean, Bool: false}, nil
		}
		return Value{}, ErrInvalidValue
	case ValueTypeEnum:
		if len(options) == 0 {
			return Value{Kind: ValueTypeEnum, Option: strings.ToLower(s)}, nil
		}
		for _, o := range options {
			if strings.EqualFold(o, s) {
				return Value{Kind: ValueTypeEnum, Option: o}, nil
			}
		}
		return Value{}, ErrInvalidValue
	}
	return Value{}, ErrInvalidValue
}

// parseLeadingNumber toma el número inicial ("12,5 kg" -> 12.5). La unidad declarada
// en el atributo es una etiqueta; no se convierte.
func parseLeadingNumber(s string) (decimal.Decimal, bool) {
	var b strings.Builder
scan:
	for i, r := range s {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '-' && i == 0:
			b.WriteRune(r)
		case r == '.' || r == ',':
			b.WriteRune('.')
		case r == ' ' && b.Len() > 0:
			// separador de miles "1 200"
			continue
		default:
			break scan
		}
	}
	num := strings.TrimRight(b.String(), ".")
	if num == "" || num == "-" || strings.Count(num, ".") > 1 {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(num)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
