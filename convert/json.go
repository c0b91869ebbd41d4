package convert

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"math"
	"strconv"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"

	"ziproto/codec"
	"ziproto/value"
)

var ErrNotRepresentable = errors.New("value has no JSON representation")

// ParseJSON converts a JSON document into a value. Object members keep
// their document order and duplicates are preserved. Numbers without a
// fraction or exponent become Int, or Uint when they only fit unsigned;
// everything else becomes Float64.
func ParseJSON(data []byte) (value.Value, error) {
	raw, dataType, end, err := jsonparser.Get(data)
	if err != nil {
		return nil, errors.Wrap(err, "invalid JSON")
	}
	if rest := bytes.TrimSpace(data[end:]); len(rest) > 0 {
		return nil, errors.Errorf("invalid JSON: %d bytes after the document", len(rest))
	}
	return parseJSONValue(dataType, raw, 0)
}

func parseJSONValue(dataType jsonparser.ValueType, data []byte, depth int) (value.Value, error) {
	switch dataType {
	case jsonparser.Null:
		return value.Nil{}, nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(data)
		if err != nil {
			return nil, err
		}
		return value.Bool(b), nil
	case jsonparser.Number:
		return parseJSONNumber(data)
	case jsonparser.String:
		s, err := jsonparser.ParseString(data)
		if err != nil {
			return nil, err
		}
		return value.Str(s), nil
	case jsonparser.Array:
		if depth >= maxNesting {
			return nil, errors.Wrapf(codec.ErrDepthExceeded, "JSON nested deeper than %d", maxNesting)
		}
		arr := value.NewArray()
		var cbErr error
		_, err := jsonparser.ArrayEach(data, func(raw []byte, dt jsonparser.ValueType, _ int, err error) {
			if cbErr != nil {
				return
			}
			if err != nil {
				cbErr = err
				return
			}
			v, err := parseJSONValue(dt, raw, depth+1)
			if err != nil {
				cbErr = err
				return
			}
			arr = append(arr, v)
		})
		if cbErr != nil {
			return nil, cbErr
		}
		if err != nil {
			return nil, errors.Wrap(err, "invalid JSON array")
		}
		return arr, nil
	case jsonparser.Object:
		if depth >= maxNesting {
			return nil, errors.Wrapf(codec.ErrDepthExceeded, "JSON nested deeper than %d", maxNesting)
		}
		m := value.NewMap()
		err := jsonparser.ObjectEach(data, func(key, raw []byte, dt jsonparser.ValueType, _ int) error {
			v, err := parseJSONValue(dt, raw, depth+1)
			if err != nil {
				return err
			}
			m = append(m, value.P(value.Str(key), v))
			return nil
		})
		if err != nil {
			return nil, errors.Wrap(err, "invalid JSON object")
		}
		return m, nil
	}

	return nil, errors.Errorf("invalid JSON value %q", data)
}

func parseJSONNumber(data []byte) (value.Value, error) {
	if !bytes.ContainsAny(data, ".eE") {
		if i, err := jsonparser.ParseInt(data); err == nil {
			return value.Int(i), nil
		}
		if u, err := strconv.ParseUint(string(data), 10, 64); err == nil {
			return value.Uint(u), nil
		}
	}
	f, err := jsonparser.ParseFloat(data)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid JSON number %q", data)
	}
	return value.Float64(f), nil
}

// WriteJSON writes v as compact JSON. Bin becomes a base64 string, map keys
// that are not Str are written in diagnostic notation, and floats that are
// integral keep a ".0" so they parse back as floats. NaN and infinities have
// no JSON form and fail with ErrNotRepresentable.
func WriteJSON(w io.Writer, v value.Value) error {
	bw := bufio.NewWriter(w)
	if err := writeJSON(bw, v); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteJSONIndent is WriteJSON with each element on its own line.
func WriteJSONIndent(w io.Writer, v value.Value, indent string) error {
	var compact bytes.Buffer
	if err := writeJSON(&compact, v); err != nil {
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", indent); err != nil {
		return errors.Wrap(err, "failed to indent JSON")
	}
	out.WriteByte('\n')
	_, err := out.WriteTo(w)
	return err
}

type jsonWriter interface {
	io.Writer
	WriteByte(c byte) error
	WriteString(s string) (int, error)
}

func writeJSON(w jsonWriter, v value.Value) error {
	var err error
	switch x := v.(type) {
	case nil, value.Nil:
		_, err = w.WriteString("null")
	case value.Bool:
		_, err = w.WriteString(strconv.FormatBool(bool(x)))
	case value.Int:
		_, err = w.WriteString(strconv.FormatInt(int64(x), 10))
	case value.Uint:
		_, err = w.WriteString(strconv.FormatUint(uint64(x), 10))
	case value.Float32:
		err = writeJSONFloat(w, float64(x), 32)
	case value.Float64:
		err = writeJSONFloat(w, float64(x), 64)
	case value.Str:
		err = writeJSONString(w, string(x))
	case value.Bin:
		err = writeJSONString(w, base64.StdEncoding.EncodeToString(x))
	case value.Array:
		if err = w.WriteByte('['); err != nil {
			return err
		}
		for i, e := range x {
			if i > 0 {
				if err = w.WriteByte(','); err != nil {
					return err
				}
			}
			if err = writeJSON(w, e); err != nil {
				return err
			}
		}
		err = w.WriteByte(']')
	case value.Map:
		if err = w.WriteByte('{'); err != nil {
			return err
		}
		for i, p := range x {
			if i > 0 {
				if err = w.WriteByte(','); err != nil {
					return err
				}
			}
			key, ok := p.Key.(value.Str)
			if !ok {
				key = value.Str(value.String(p.Key))
			}
			if err = writeJSONString(w, string(key)); err != nil {
				return err
			}
			if err = w.WriteByte(':'); err != nil {
				return err
			}
			if err = writeJSON(w, p.Value); err != nil {
				return err
			}
		}
		err = w.WriteByte('}')
	}
	return err
}

func writeJSONFloat(w jsonWriter, f float64, bits int) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return errors.Wrapf(ErrNotRepresentable, "float %v", f)
	}
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if !bytes.ContainsAny([]byte(s), ".eE") {
		s += ".0"
	}
	_, err := w.WriteString(s)
	return err
}

// writeJSONString quotes s; invalid UTF-8 is replaced with U+FFFD.
func writeJSONString(w jsonWriter, s string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	_, err := w.Write(bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}))
	return err
}
