package css

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser reads css text back into stylesheet model.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses css text. Unsupported at-rules are skipped and recorded in
// sheet warnings, syntax errors are returned.
// The optional source parameter identifies what's being parsed (for debug logging).
func (p *Parser) Parse(data []byte, source ...string) (*Stylesheet, error) {
	sheet := &Stylesheet{}

	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing CSS", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	parser := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			return sheet, parseError(parser)

		case css.CommentGrammar:
			text := strings.TrimSuffix(strings.TrimPrefix(string(data), "/*"), "*/")
			sheet.Comment(strings.TrimSpace(text))

		case css.BeginAtRuleGrammar:
			if !strings.EqualFold(string(data), "@media") {
				sheet.Warnings = append(sheet.Warnings, "unsupported at-rule: "+string(data))
				p.log.Debug("Skipping @-rule", zap.String("rule", string(data)))
				if err := skipBlock(parser); err != nil {
					return sheet, err
				}
				continue
			}
			m := sheet.Media(join(parser.Values()))
			if err := p.parseMedia(parser, m); err != nil {
				return sheet, err
			}

		case css.AtRuleGrammar:
			sheet.Warnings = append(sheet.Warnings, "unsupported at-rule: "+string(data))

		case css.BeginRulesetGrammar:
			r := sheet.Rule(selector(data, parser.Values()))
			if err := parseDeclarations(parser, r); err != nil {
				return sheet, err
			}

		case css.QualifiedRuleGrammar:
			// selector list continues until BeginRulesetGrammar, handled
			// there through Values of the parser
		}
	}
}

func parseError(parser *css.Parser) error {
	if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("unable to parse css: %w", err)
	}
	return nil
}

func (p *Parser) parseMedia(parser *css.Parser, m *MediaBlock) error {
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := parseError(parser); err != nil {
				return err
			}
			return errors.New("unable to parse css: unterminated @media block")
		case css.EndAtRuleGrammar:
			return nil
		case css.BeginRulesetGrammar:
			if err := parseDeclarations(parser, m.Rule(selector(data, parser.Values()))); err != nil {
				return err
			}
		case css.BeginAtRuleGrammar:
			p.log.Debug("Skipping nested @-rule", zap.String("rule", string(data)))
			if err := skipBlock(parser); err != nil {
				return err
			}
		}
	}
}

func parseDeclarations(parser *css.Parser, r *Rule) error {
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := parseError(parser); err != nil {
				return err
			}
			return fmt.Errorf("unable to parse css: unterminated rule %q", r.Selector)
		case css.EndRulesetGrammar:
			return nil
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			d := Declaration{Property: string(data)}
			value := join(parser.Values())
			if v, found := strings.CutSuffix(value, "!important"); found {
				value = strings.TrimSpace(v)
				d.Important = true
			}
			d.Value = value
			r.Declarations = append(r.Declarations, d)
		}
	}
}

// skipBlock skips tokens until the matching end of an @-rule block.
func skipBlock(parser *css.Parser) error {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := parseError(parser); err != nil {
				return err
			}
			return nil
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
	return nil
}

// selector builds selector text from ruleset prelude.
func selector(data []byte, values []css.Token) string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// join rebuilds value text from tokens, whitespace runs become single space.
func join(tokens []css.Token) string {
	var sb strings.Builder
	space := false
	for _, t := range tokens {
		if t.TokenType == css.WhitespaceToken {
			space = sb.Len() > 0
			continue
		}
		if space {
			sb.WriteByte(' ')
			space = false
		}
		sb.Write(t.Data)
	}
	return sb.String()
}
