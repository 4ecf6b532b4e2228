package jetjson

import (
	"encoding/base64"
	"errors"
	"math"
	"reflect"
	"strconv"
)

var (
	ErrUnsupportedType = errors.New("unsupported type")
)

// Marshal encodes a Go value by building a document from it and serializing
// with default options.
func Marshal(v interface{}) ([]byte, error) {
	doc, err := NewDocumentFrom(v)
	if err != nil {
		return nil, err
	}
	return Serialize(doc, Options{})
}

// Unmarshal parses data and decodes the document into the value pointed to
// by v.
func Unmarshal(data []byte, v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.New("unmarshal requires non-nil pointer")
	}
	doc, err := Parse(data, Options{})
	if err != nil {
		return err
	}
	return decodeNode(doc.Root(), rv.Elem())
}

// NewDocumentFrom builds a document owning a deep conversion of the Go
// value v.
func NewDocumentFrom(v interface{}) (*Document, error) {
	doc := NewDocument()
	n, err := doc.encode(reflect.ValueOf(v))
	if err != nil {
		return nil, err
	}
	doc.root = n
	return doc, nil
}

func (d *Document) encode(v reflect.Value) (Node, error) {
	if !v.IsValid() {
		return d.NewNull(), nil
	}
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return d.NewNull(), nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Bool:
		return d.NewBool(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return d.NewInt(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return d.NewUint(v.Uint()), nil
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Node{}, errors.New("unsupported float value")
		}
		return d.NewFloat(f), nil
	case reflect.String:
		return d.NewString(v.String()), nil
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			// []byte encodes as a base64 string.
			return d.NewString(base64.StdEncoding.EncodeToString(v.Bytes())), nil
		}
		return d.encodeArray(v)
	case reflect.Array:
		return d.encodeArray(v)
	case reflect.Map:
		return d.encodeMap(v)
	case reflect.Struct:
		return d.encodeStruct(v)
	case reflect.Interface:
		if v.IsNil() {
			return d.NewNull(), nil
		}
		return d.encode(v.Elem())
	default:
		return Node{}, errors.New("unsupported type: " + v.Type().String())
	}
}

func (d *Document) encodeArray(v reflect.Value) (Node, error) {
	n := v.Len()
	arr := d.allocNodes(n)
	for i := 0; i < n; i++ {
		child, err := d.encode(v.Index(i))
		if err != nil {
			return Node{}, err
		}
		arr = append(arr, child)
	}
	return Node{kind: Array, arr: arr}, nil
}

func (d *Document) encodeMap(v reflect.Value) (Node, error) {
	if v.Type().Key().Kind() != reflect.String {
		return Node{}, errors.New("map key must be string")
	}
	keys := v.MapKeys()
	obj := d.allocMembers(len(keys))
	for _, key := range keys {
		val, err := d.encode(v.MapIndex(key))
		if err != nil {
			return Node{}, err
		}
		obj = append(obj, Member{
			Key:   d.arena.CopyString([]byte(key.String())),
			Value: val,
		})
	}
	return Node{kind: Object, obj: obj}, nil
}

func (d *Document) encodeStruct(v reflect.Value) (Node, error) {
	typ := v.Type()
	obj := d.allocMembers(v.NumField())
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		structField := typ.Field(i)

		if structField.PkgPath != "" {
			continue
		}
		tag := structField.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name := structField.Name
		omitempty := false
		if tag != "" {
			if idx := findComma(tag); idx != -1 {
				if tag[:idx] != "" {
					name = tag[:idx]
				}
				if tag[idx+1:] == "omitempty" {
					omitempty = true
				}
			} else {
				name = tag
			}
		}
		if omitempty && isEmptyValue(field) {
			continue
		}

		val, err := d.encode(field)
		if err != nil {
			return Node{}, err
		}
		obj = d.appendMember(obj, Member{
			Key:   d.arena.CopyString([]byte(name)),
			Value: val,
		})
	}
	return Node{kind: Object, obj: obj}, nil
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	}
	return false
}

func findComma(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == ',' {
			return i
		}
	}
	return -1
}

func decodeNode(n *Node, dst reflect.Value) error {
	if n.IsNull() {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	if dst.Kind() == reflect.Ptr {
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return decodeNode(n, dst.Elem())
	}
	if dst.Kind() == reflect.Interface && dst.Type().NumMethod() == 0 {
		dst.Set(reflect.ValueOf(n.Interface()))
		return nil
	}

	switch n.Kind() {
	case Bool:
		if dst.Kind() != reflect.Bool {
			return errors.New("cannot unmarshal bool into " + dst.Type().String())
		}
		b, _ := n.Bool()
		dst.SetBool(b)
		return nil
	case Int, Uint, Float, RawNumber:
		return decodeNumber(n, dst)
	case String:
		s, _ := n.Str()
		switch dst.Kind() {
		case reflect.String:
			dst.SetString(s)
			return nil
		case reflect.Slice:
			if dst.Type().Elem().Kind() == reflect.Uint8 {
				raw, err := base64.StdEncoding.DecodeString(s)
				if err != nil {
					return err
				}
				dst.SetBytes(raw)
				return nil
			}
		}
		return errors.New("cannot unmarshal string into " + dst.Type().String())
	case Array:
		return decodeArray(n, dst)
	case Object:
		return decodeObject(n, dst)
	}
	return errors.New("unexpected value type")
}

func decodeNumber(n *Node, dst reflect.Value) error {
	switch dst.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if i, ok := n.Int64(); ok {
			dst.SetInt(i)
			return nil
		}
		if f, ok := n.Float64(); ok {
			dst.SetInt(int64(f))
			return nil
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if u, ok := n.Uint64(); ok {
			dst.SetUint(u)
			return nil
		}
		if f, ok := n.Float64(); ok {
			dst.SetUint(uint64(f))
			return nil
		}
	case reflect.Float32, reflect.Float64:
		if f, ok := n.Float64(); ok {
			dst.SetFloat(f)
			return nil
		}
	case reflect.String:
		// RawNumber decodes into string targets as its exact text.
		if raw, ok := n.RawNumber(); ok {
			dst.SetString(raw)
			return nil
		}
	}
	if raw, ok := n.RawNumber(); ok {
		if f, err := strconv.ParseFloat(raw, 64); err == nil && dst.CanFloat() {
			dst.SetFloat(f)
			return nil
		}
	}
	return errors.New("cannot unmarshal number into " + dst.Type().String())
}

func decodeArray(n *Node, dst reflect.Value) error {
	elems := n.Elems()
	switch dst.Kind() {
	case reflect.Slice:
		if dst.IsNil() || dst.Len() < len(elems) {
			dst.Set(reflect.MakeSlice(dst.Type(), len(elems), len(elems)))
		}
		for i := range elems {
			if err := decodeNode(&elems[i], dst.Index(i)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Array:
		if dst.Len() < len(elems) {
			return errors.New("array too small")
		}
		for i := range elems {
			if err := decodeNode(&elems[i], dst.Index(i)); err != nil {
				return err
			}
		}
		return nil
	}
	return errors.New("cannot unmarshal array into " + dst.Type().String())
}

func decodeObject(n *Node, dst reflect.Value) error {
	members := n.Members()
	switch dst.Kind() {
	case reflect.Map:
		if dst.Type().Key().Kind() != reflect.String {
			return errors.New("map key must be string")
		}
		if dst.IsNil() {
			dst.Set(reflect.MakeMap(dst.Type()))
		}
		elemType := dst.Type().Elem()
		for i := range members {
			elem := reflect.New(elemType).Elem()
			if err := decodeNode(&members[i].Value, elem); err != nil {
				return err
			}
			dst.SetMapIndex(reflect.ValueOf(members[i].Key), elem)
		}
		return nil
	case reflect.Struct:
		return decodeStruct(n, dst)
	}
	return errors.New("cannot unmarshal object into " + dst.Type().String())
}

func decodeStruct(n *Node, dst reflect.Value) error {
	typ := dst.Type()
	fields := make(map[string]int, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		tag := field.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name := field.Name
		if tag != "" {
			if idx := findComma(tag); idx != -1 {
				if tag[:idx] != "" {
					name = tag[:idx]
				}
			} else {
				name = tag
			}
		}
		fields[name] = i
	}

	members := n.Members()
	for i := range members {
		idx, ok := fields[members[i].Key]
		if !ok {
			continue
		}
		field := dst.Field(idx)
		if !field.CanSet() {
			continue
		}
		if err := decodeNode(&members[i].Value, field); err != nil {
			return err
		}
	}
	return nil
}
