package reactive

import (
	"reflect"
	"sort"
)

// keysKey is the pseudo-key tracked by Keys and triggered when a key is
// added or deleted.
const keysKey = "\x00keys"

// Fields is implemented by targets that expose their own keyed fields.
// Implementations must be pointers (or maps) so they have a stable identity.
type Fields interface {
	// Field returns the value stored under key and whether it exists.
	Field(key string) (any, bool)

	// SetField stores value under key.
	SetField(key string, value any) error

	// FieldKeys lists the keys currently present.
	FieldKeys() []string
}

// Observable routes reads and writes of a target's fields through the
// runtime's subscription graph.
//
// Reading a field while an effect runs subscribes that effect to the field.
// Writing a different value notifies the field's subscribers.
type Observable struct {
	rt  *Runtime
	raw any
	id  targetKey
	acc accessor

	// children memoizes nested wrappers by field, valid while the field
	// still holds the same object.
	children map[string]*Observable
}

// Reactive returns an *Observable for target. If target cannot be observed,
// Reactive logs a warning and returns target unchanged; nothing is tracked
// for it. An *Observable is returned as is.
func (rt *Runtime) Reactive(target any) any {
	o, err := rt.Observe(target)
	if err != nil {
		rt.warn("R001", err, "%T", target)
		return target
	}
	return o
}

// Observe is like Reactive but reports a value that cannot be observed
// with ErrNotObject.
func (rt *Runtime) Observe(target any) (*Observable, error) {
	if o, ok := target.(*Observable); ok && o != nil {
		return o, nil
	}
	id, ok := objectIdentity(target)
	if !ok {
		return nil, ErrNotObject
	}
	return &Observable{
		rt:  rt,
		raw: target,
		id:  id,
		acc: newAccessor(target, id.kind),
	}, nil
}

// Get returns the value of key, subscribing the current effect to it.
// Nested objects are returned as *Observable.
func (o *Observable) Get(key string) any {
	v, _ := o.Lookup(key)
	return v
}

// Lookup is like Get and also reports whether key exists.
func (o *Observable) Lookup(key string) (any, bool) {
	o.rt.track(o.id, key)
	v, ok := o.acc.get(key)
	if !ok {
		return nil, false
	}
	return o.wrapNested(key, v), true
}

// Has reports whether key exists, subscribing the current effect to it.
func (o *Observable) Has(key string) bool {
	o.rt.track(o.id, key)
	_, ok := o.acc.get(key)
	return ok
}

// Keys returns the target's keys. The current effect is notified when a
// key is added or deleted.
func (o *Observable) Keys() []string {
	o.rt.track(o.id, keysKey)
	return o.acc.keys()
}

// Set stores value under key and notifies the key's subscribers, except the
// running effect, when the stored value changed. An *Observable value is
// stored as its raw target. A rejected write logs a warning and is ignored.
func (o *Observable) Set(key string, value any) {
	value = ToRaw(value)
	old, existed := o.acc.get(key)
	if existed && o.unchanged(old, value) {
		return
	}
	if err := o.acc.set(key, value); err != nil {
		o.rt.warn("R004", err, "%s field %q", o.id.kind, key)
		return
	}
	o.rt.trigger(o.id, key)
	if !existed {
		o.rt.trigger(o.id, keysKey)
	}
}

// Delete removes key from a map target and notifies its subscribers.
// It reports whether the key existed.
func (o *Observable) Delete(key string) bool {
	if _, existed := o.acc.get(key); !existed {
		return false
	}
	if err := o.acc.del(key); err != nil {
		o.rt.warn("R004", err, "%s field %q", o.id.kind, key)
		return false
	}
	delete(o.children, key)
	o.rt.trigger(o.id, key)
	o.rt.trigger(o.id, keysKey)
	return true
}

// unchanged reports whether writing value over old is a no-op. A nested
// struct field is held by address, so a struct value is compared with the
// field's contents.
func (o *Observable) unchanged(old, value any) bool {
	if SameValue(old, value) {
		return true
	}
	if o.id.kind != kindStruct || value == nil {
		return false
	}
	ov := reflect.ValueOf(old)
	if ov.Kind() != reflect.Pointer || ov.IsNil() || ov.Type().Elem() != reflect.TypeOf(value) {
		return false
	}
	return SameValue(ov.Elem().Interface(), value)
}

// Peek returns the value of key without subscribing. Nested objects are
// still wrapped.
func (o *Observable) Peek(key string) any {
	v, ok := o.acc.get(key)
	if !ok {
		return nil
	}
	return o.wrapNested(key, v)
}

// Raw returns the wrapped target.
func (o *Observable) Raw() any {
	return o.raw
}

// wrapNested wraps v when it is an object, reusing the previous wrapper
// while key still holds the same object.
func (o *Observable) wrapNested(key string, v any) any {
	id, ok := objectIdentity(v)
	if !ok {
		return v
	}
	if c := o.children[key]; c != nil && c.id == id {
		return c
	}
	c := &Observable{rt: o.rt, raw: v, id: id, acc: newAccessor(v, id.kind)}
	if o.children == nil {
		o.children = make(map[string]*Observable)
	}
	o.children[key] = c
	return c
}

// IsReactive reports whether v is an *Observable.
func IsReactive(v any) bool {
	o, ok := v.(*Observable)
	return ok && o != nil
}

// ToRaw returns the target of an *Observable, or v itself.
func ToRaw(v any) any {
	if o, ok := v.(*Observable); ok && o != nil {
		return o.raw
	}
	return v
}

// cell is implemented by Ref and Computed.
type cell interface {
	reactiveKey() targetKey
	anyValue() any
}

// identityOf returns the graph identity of an object, *Observable, or cell.
func identityOf(v any) (targetKey, bool) {
	switch t := v.(type) {
	case *Observable:
		if t == nil {
			return targetKey{}, false
		}
		return t.id, true
	case cell:
		return t.reactiveKey(), true
	}
	return objectIdentity(v)
}

// objectIdentity returns the identity of a value that can be observed.
func objectIdentity(v any) (targetKey, bool) {
	if v == nil {
		return targetKey{}, false
	}
	if _, ok := v.(cell); ok {
		return targetKey{}, false
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Pointer:
		if rv.IsNil() {
			return targetKey{}, false
		}
	default:
		return targetKey{}, false
	}

	key := targetKey{typ: rv.Type(), ptr: rv.UnsafePointer()}
	switch {
	case isFields(v):
		key.kind = kindFields
	case rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String:
		key.kind = kindMap
	case rv.Kind() == reflect.Pointer && rv.Elem().Kind() == reflect.Struct:
		key.kind = kindStruct
	default:
		return targetKey{}, false
	}
	return key, true
}

func isFields(v any) bool {
	_, ok := v.(Fields)
	return ok
}

// accessor reads and writes the fields of one target.
type accessor interface {
	get(key string) (any, bool)
	set(key string, v any) error
	del(key string) error
	keys() []string
}

func newAccessor(v any, kind targetKind) accessor {
	switch kind {
	case kindFields:
		return fieldsAccessor{f: v.(Fields)}
	case kindMap:
		return mapAccessor{m: reflect.ValueOf(v)}
	default:
		return structAccessor{s: reflect.ValueOf(v).Elem()}
	}
}

type mapAccessor struct {
	m reflect.Value
}

func (a mapAccessor) key(k string) reflect.Value {
	return reflect.ValueOf(k).Convert(a.m.Type().Key())
}

func (a mapAccessor) get(k string) (any, bool) {
	v := a.m.MapIndex(a.key(k))
	if !v.IsValid() {
		return nil, false
	}
	return v.Interface(), true
}

func (a mapAccessor) set(k string, v any) error {
	val, err := assignable(v, a.m.Type().Elem())
	if err != nil {
		return err
	}
	a.m.SetMapIndex(a.key(k), val)
	return nil
}

func (a mapAccessor) del(k string) error {
	a.m.SetMapIndex(a.key(k), reflect.Value{})
	return nil
}

func (a mapAccessor) keys() []string {
	keys := make([]string, 0, a.m.Len())
	for _, k := range a.m.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	return keys
}

type structAccessor struct {
	s reflect.Value
}

func (a structAccessor) field(k string) (reflect.Value, bool) {
	sf, ok := a.s.Type().FieldByName(k)
	if !ok || !sf.IsExported() {
		return reflect.Value{}, false
	}
	return a.s.FieldByIndex(sf.Index), true
}

// get returns a struct-valued field with exported fields by address, so it
// is wrapped like any other nested object and writes reach the parent.
func (a structAccessor) get(k string) (any, bool) {
	f, ok := a.field(k)
	if !ok {
		return nil, false
	}
	if nestedStruct(f.Type()) {
		return f.Addr().Interface(), true
	}
	return f.Interface(), true
}

func (a structAccessor) set(k string, v any) error {
	f, ok := a.field(k)
	if !ok {
		return ErrUnknownField
	}
	// Accept the pointer get hands out for a nested struct field.
	if rv := reflect.ValueOf(v); nestedStruct(f.Type()) && rv.Kind() == reflect.Pointer && rv.Type().Elem() == f.Type() {
		if rv.IsNil() {
			return ErrFieldType
		}
		v = rv.Elem().Interface()
	}
	val, err := assignable(v, f.Type())
	if err != nil {
		return err
	}
	f.Set(val)
	return nil
}

func nestedStruct(t reflect.Type) bool {
	if t.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).IsExported() {
			return true
		}
	}
	return false
}

func (a structAccessor) del(string) error {
	return ErrUnknownField
}

func (a structAccessor) keys() []string {
	t := a.s.Type()
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if sf := t.Field(i); sf.IsExported() && !sf.Anonymous {
			keys = append(keys, sf.Name)
		}
	}
	return keys
}

type fieldsAccessor struct {
	f Fields
}

func (a fieldsAccessor) get(k string) (any, bool) { return a.f.Field(k) }
func (a fieldsAccessor) set(k string, v any) error { return a.f.SetField(k, v) }
func (a fieldsAccessor) del(string) error { return ErrUnknownField }
func (a fieldsAccessor) keys() []string { return a.f.FieldKeys() }

// assignable converts v to a value settable into a slot of type t.
func assignable(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		switch t.Kind() {
		case reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, ErrFieldType
	}
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(t) {
		return reflect.Value{}, ErrFieldType
	}
	return rv, nil
}
