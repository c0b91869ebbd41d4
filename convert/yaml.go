package convert

import (
	"bytes"
	"encoding/base64"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"ziproto/codec"
	"ziproto/value"
)

// maxYAMLNodes caps how many nodes a document may expand to once aliases
// are followed.
const maxYAMLNodes = 1 << 20

const (
	yamlNull   = "!!null"
	yamlBool   = "!!bool"
	yamlInt    = "!!int"
	yamlFloat  = "!!float"
	yamlStr    = "!!str"
	yamlBinary = "!!binary"
	yamlSeq    = "!!seq"
	yamlMap    = "!!map"
)

// ParseYAML converts the first document of a YAML stream into a value.
// Mapping order is kept. Integers that do not fit int64 become Uint and
// !!binary scalars become Bin.
func ParseYAML(data []byte) (value.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "invalid YAML")
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("invalid YAML: empty document")
	}
	budget := maxYAMLNodes
	return fromYAML(doc.Content[0], 0, &budget)
}

func fromYAML(n *yaml.Node, depth int, budget *int) (value.Value, error) {
	*budget--
	if *budget < 0 {
		return nil, errors.Errorf("YAML document expands beyond %d nodes", maxYAMLNodes)
	}
	if depth > maxNesting {
		return nil, errors.Wrapf(codec.ErrDepthExceeded, "YAML nested deeper than %d", maxNesting)
	}

	switch n.Kind {
	case yaml.AliasNode:
		return fromYAML(n.Alias, depth+1, budget)
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Nil{}, nil
		}
		return fromYAML(n.Content[0], depth, budget)
	case yaml.SequenceNode:
		arr := make(value.Array, len(n.Content))
		for i, c := range n.Content {
			v, err := fromYAML(c, depth+1, budget)
			if err != nil {
				return nil, err
			}
			arr[i] = v
		}
		return arr, nil
	case yaml.MappingNode:
		m := make(value.Map, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, err := fromYAML(n.Content[i], depth+1, budget)
			if err != nil {
				return nil, err
			}
			v, err := fromYAML(n.Content[i+1], depth+1, budget)
			if err != nil {
				return nil, err
			}
			m = append(m, value.P(k, v))
		}
		return m, nil
	case yaml.ScalarNode:
		return fromYAMLScalar(n)
	}

	return nil, errors.Errorf("unexpected YAML node kind %d at line %d", n.Kind, n.Line)
}

func fromYAMLScalar(n *yaml.Node) (value.Value, error) {
	switch n.ShortTag() {
	case yamlNull:
		return value.Nil{}, nil
	case yamlBool:
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return value.Bool(b), nil
	case yamlInt:
		var i int64
		if err := n.Decode(&i); err == nil {
			return value.Int(i), nil
		}
		var u uint64
		if err := n.Decode(&u); err != nil {
			return nil, errors.Wrapf(err, "line %d", n.Line)
		}
		return value.Uint(u), nil
	case yamlFloat:
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, errors.Wrapf(err, "line %d", n.Line)
		}
		return value.Float64(f), nil
	case yamlBinary:
		b, err := base64.StdEncoding.DecodeString(stripSpace(n.Value))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid !!binary at line %d", n.Line)
		}
		return value.Bin(b), nil
	}
	return value.Str(n.Value), nil
}

func stripSpace(s string) string {
	return string(bytes.Join(bytes.Fields([]byte(s)), nil))
}

// MarshalYAML renders v as a YAML document. Order is kept and non-string
// keys are written as YAML keys of their own kind. Bin, and Str that is not
// valid UTF-8, are written as !!binary.
func MarshalYAML(v value.Value) ([]byte, error) {
	node, err := toYAML(v, 0)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, errors.Wrap(err, "failed to encode YAML")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to encode YAML")
	}
	return buf.Bytes(), nil
}

func scalar(tag, v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v}
}

func toYAML(v value.Value, depth int) (*yaml.Node, error) {
	if depth > maxNesting {
		return nil, errors.Wrapf(codec.ErrDepthExceeded, "nesting deeper than %d", maxNesting)
	}

	switch x := v.(type) {
	case nil, value.Nil:
		return scalar(yamlNull, "null"), nil
	case value.Bool:
		return scalar(yamlBool, strconv.FormatBool(bool(x))), nil
	case value.Int:
		return scalar(yamlInt, strconv.FormatInt(int64(x), 10)), nil
	case value.Uint:
		return scalar(yamlInt, strconv.FormatUint(uint64(x), 10)), nil
	case value.Float32:
		return scalar(yamlFloat, yamlFloatString(float64(x), 32)), nil
	case value.Float64:
		return scalar(yamlFloat, yamlFloatString(float64(x), 64)), nil
	case value.Str:
		if !utf8.ValidString(string(x)) {
			return scalar(yamlBinary, base64.StdEncoding.EncodeToString([]byte(x))), nil
		}
		n := scalar(yamlStr, string(x))
		return n, nil
	case value.Bin:
		return scalar(yamlBinary, base64.StdEncoding.EncodeToString(x)), nil
	case value.Array:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: yamlSeq}
		for _, e := range x {
			c, err := toYAML(e, depth+1)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, c)
		}
		if len(x) == 0 {
			n.Style = yaml.FlowStyle
		}
		return n, nil
	case value.Map:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: yamlMap}
		for _, p := range x {
			k, err := toYAML(p.Key, depth+1)
			if err != nil {
				return nil, err
			}
			e, err := toYAML(p.Value, depth+1)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, k, e)
		}
		if len(x) == 0 {
			n.Style = yaml.FlowStyle
		}
		return n, nil
	}

	return nil, errors.Wrapf(ErrUnsupportedType, "%T", v)
}

func yamlFloatString(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if !bytes.ContainsAny([]byte(s), ".eEn") {
		s += ".0"
	}
	return s
}
