package numberutil

import (
	"encoding/json"
	"math/big"
	"reflect"

	"github.com/eluv-io/errors-go"
)

// AsBigIntErr returns the given integer value as a *big.Int. Accepted are all
// Go integer types (including named types based on them), json.Number holding
// an integer, big.Int and *big.Int. Floats and strings are rejected, even if
// they hold an integral value. The returned value is never shared with val.
func AsBigIntErr(val interface{}) (*big.Int, error) {
	e := errors.Template("AsBigInt", errors.K.Invalid, "value", val)
	switch x := val.(type) {
	case nil:
		return nil, e(errors.K.NotExist)
	case int:
		return big.NewInt(int64(x)), nil
	case int8:
		return big.NewInt(int64(x)), nil
	case int16:
		return big.NewInt(int64(x)), nil
	case int32:
		return big.NewInt(int64(x)), nil
	case int64:
		return big.NewInt(x), nil
	case uint:
		return new(big.Int).SetUint64(uint64(x)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(x)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(x)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(x)), nil
	case uint64:
		return new(big.Int).SetUint64(x), nil
	case json.Number:
		res, ok := new(big.Int).SetString(string(x), 10)
		if !ok {
			return nil, e("reason", "not an integer")
		}
		return res, nil
	case big.Int:
		return new(big.Int).Set(&x), nil
	case *big.Int:
		if x == nil {
			return nil, e(errors.K.NotExist)
		}
		return new(big.Int).Set(x), nil
	}

	// named integer types
	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return new(big.Int).SetUint64(rv.Uint()), nil
	}
	return nil, e("reason", "not an integer", "type", rv.Type().String())
}

// AsFloat64Err returns the given value as a float64, converting it from other
// number types or json.Number. Strings are rejected. Returns an error if the
// conversion fails.
func AsFloat64Err(val interface{}) (float64, error) {
	e := errors.Template("AsFloat64", errors.K.Invalid, "value", val)
	switch x := val.(type) {
	case nil:
		return 0, e(errors.K.NotExist)
	case float32:
		return float64(x), nil
	case float64:
		return x, nil
	case json.Number:
		res, err := x.Float64()
		if err != nil {
			return 0, e(err)
		}
		return res, nil
	case *big.Float:
		if x == nil {
			return 0, e(errors.K.NotExist)
		}
		res, _ := x.Float64()
		return res, nil
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	}
	if i, err := AsBigIntErr(val); err == nil {
		res, _ := new(big.Float).SetInt(i).Float64()
		return res, nil
	}
	return 0, e("reason", "not a number", "type", rv.Type().String())
}

// IsInteger returns true if the given value is accepted by AsBigIntErr.
func IsInteger(val interface{}) bool {
	_, err := AsBigIntErr(val)
	return err == nil
}
