package jsonval

// Field is one column of a Row.
type Field struct {
	Key   string
	Value Value
}

// Row is an ordered mapping from column alias to value, as read from the
// record store. Column order is the order of the SELECT list.
type Row []Field

// Get returns the value stored under key.
func (r Row) Get(key string) (Value, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Keys returns the column aliases in order.
func (r Row) Keys() []string {
	keys := make([]string, len(r))
	for i, f := range r {
		keys[i] = f.Key
	}
	return keys
}

// Object converts the row into an Object. Later duplicates win.
func (r Row) Object() Object {
	obj := make(Object, len(r))
	for _, f := range r {
		obj[f.Key] = f.Value
	}
	return obj
}
