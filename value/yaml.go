package value

import (
	"fmt"
	"math"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/shibukawa/sqlfixture"
)

// Parse reads the first YAML document in data as a Value tree.
//
// Parsing works on the YAML AST rather than on decoded Go values so that float
// literals keep their text and mappings keep their key order. Anchors and
// aliases are resolved; tags other than !!str are ignored.
func Parse(data []byte) (Value, error) {
	file, err := parser.ParseBytes(data, 0)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %w", sqlfixture.ErrDocumentSyntax, err)
	}

	if len(file.Docs) == 0 || file.Docs[0] == nil || file.Docs[0].Body == nil {
		return Null(), nil
	}

	d := &decoder{anchors: make(map[string]Value)}

	return d.decode(file.Docs[0].Body)
}

type decoder struct {
	anchors map[string]Value
}

func (d *decoder) decode(node ast.Node) (Value, error) {
	if node == nil {
		return Null(), nil
	}

	switch n := node.(type) {
	case *ast.DocumentNode:
		return d.decode(n.Body)
	case *ast.NullNode:
		return Null(), nil
	case *ast.BoolNode:
		return Bool(n.Value), nil
	case *ast.IntegerNode:
		return decodeInteger(n)
	case *ast.FloatNode:
		return decodeFloat(n)
	case *ast.InfinityNode, *ast.NanNode:
		return Value{}, d.errorf(node, "non-finite float %s is not supported", node.GetToken().Value)
	case *ast.StringNode:
		return String(n.Value), nil
	case *ast.LiteralNode:
		if n.Value == nil {
			return String(""), nil
		}

		return String(n.Value.Value), nil
	case *ast.SequenceNode:
		items := make([]Value, 0, len(n.Values))
		for _, child := range n.Values {
			item, err := d.decode(child)
			if err != nil {
				return Value{}, err
			}

			items = append(items, item)
		}

		return Sequence(items...), nil
	case *ast.MappingNode:
		entries := make([]MapItem, 0, len(n.Values))
		for _, mv := range n.Values {
			entry, err := d.decodeEntry(mv)
			if err != nil {
				return Value{}, err
			}

			entries = append(entries, entry)
		}

		return Mapping(entries...), nil
	case *ast.MappingValueNode:
		entry, err := d.decodeEntry(n)
		if err != nil {
			return Value{}, err
		}

		return Mapping(entry), nil
	case *ast.AnchorNode:
		v, err := d.decode(n.Value)
		if err != nil {
			return Value{}, err
		}

		if n.Name != nil {
			d.anchors[n.Name.GetToken().Value] = v
		}

		return v, nil
	case *ast.AliasNode:
		if n.Value == nil {
			return Value{}, d.errorf(node, "alias without a name")
		}

		name := n.Value.GetToken().Value

		v, ok := d.anchors[name]
		if !ok {
			return Value{}, d.errorf(node, "undefined alias *%s", name)
		}

		return v, nil
	case *ast.TagNode:
		if n.Start != nil && n.Start.Value == "!!str" && n.Value != nil {
			return String(n.Value.GetToken().Value), nil
		}

		return d.decode(n.Value)
	default:
		return Value{}, d.errorf(node, "unsupported YAML node %s", node.Type())
	}
}

func (d *decoder) decodeEntry(mv *ast.MappingValueNode) (MapItem, error) {
	key, err := d.mappingKey(mv.Key)
	if err != nil {
		return MapItem{}, err
	}

	v, err := d.decode(mv.Value)
	if err != nil {
		return MapItem{}, err
	}

	return MapItem{Key: key, Value: v}, nil
}

func (d *decoder) mappingKey(node ast.Node) (string, error) {
	switch k := node.(type) {
	case *ast.StringNode:
		return k.Value, nil
	case *ast.MappingKeyNode:
		return d.mappingKey(k.Value)
	case *ast.MergeKeyNode:
		return "", d.errorf(node, "merge keys are not supported")
	case nil:
		return "", fmt.Errorf("%w: mapping entry without a key", sqlfixture.ErrDocumentSyntax)
	default:
		tok := node.GetToken()
		if tok == nil {
			return "", d.errorf(node, "unsupported mapping key %s", node.Type())
		}

		return tok.Value, nil
	}
}

func (d *decoder) errorf(node ast.Node, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if tok := node.GetToken(); tok != nil && tok.Position != nil {
		return fmt.Errorf("%w: line %d: %s", sqlfixture.ErrDocumentSyntax, tok.Position.Line, msg)
	}

	return fmt.Errorf("%w: %s", sqlfixture.ErrDocumentSyntax, msg)
}

func decodeInteger(n *ast.IntegerNode) (Value, error) {
	switch i := n.Value.(type) {
	case int64:
		return Integer(i), nil
	case int:
		return Integer(int64(i)), nil
	case uint64:
		if i > math.MaxInt64 {
			return Value{}, fmt.Errorf("%w: integer %d overflows int64", sqlfixture.ErrDocumentSyntax, i)
		}

		return Integer(int64(i)), nil
	default:
		parsed, err := strconv.ParseInt(n.GetToken().Value, 0, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: invalid integer %q: %w", sqlfixture.ErrDocumentSyntax, n.GetToken().Value, err)
		}

		return Integer(parsed), nil
	}
}

func decodeFloat(n *ast.FloatNode) (Value, error) {
	if tok := n.GetToken(); tok != nil {
		if v, err := Float(tok.Value); err == nil {
			return v, nil
		}
	}

	// Literal spellings decimal cannot read (e.g. "1_000.5") fall back to the parsed number.
	v, err := FloatFromFloat64(n.Value)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %w", sqlfixture.ErrDocumentSyntax, err)
	}

	return v, nil
}

// MarshalYAML encodes the value with goccy/go-yaml. Floats are emitted with
// their stored decimal text.
func (v Value) MarshalYAML() (any, error) {
	switch v.kind {
	case KindNull:
		return nil, nil
	case KindBool:
		return v.b, nil
	case KindInteger:
		return v.i, nil
	case KindFloat:
		return floatLiteral(v.s), nil
	case KindString:
		return v.s, nil
	case KindSequence:
		return v.items, nil
	case KindMapping:
		slice := make(yaml.MapSlice, len(v.entries))
		for i, e := range v.entries {
			slice[i] = yaml.MapItem{Key: e.Key, Value: e.Value}
		}

		return slice, nil
	default:
		return nil, fmt.Errorf("cannot encode value of kind %s", v.kind)
	}
}

type floatLiteral string

func (f floatLiteral) MarshalYAML() ([]byte, error) {
	return []byte(f), nil
}
