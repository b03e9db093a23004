// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Structure counts the Markdown elements markitdown typically emits.
type Structure struct {
	Headings   int
	Tables     int
	Links      int
	Images     int
	CodeBlocks int
}

func (s Structure) String() string {
	return fmt.Sprintf("%d headings, %d tables, %d links, %d images, %d code blocks",
		s.Headings, s.Tables, s.Links, s.Images, s.CodeBlocks)
}

// parser is stateless once built and shared across calls.
var parser = goldmark.New(goldmark.WithExtensions(extension.Table)).Parser()

// Analyze parses src as GitHub-flavored Markdown and counts its elements.
func Analyze(src []byte) Structure {
	var s Structure
	doc := parser.Parse(text.NewReader(src))

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindHeading:
			s.Headings++
		case extast.KindTable:
			s.Tables++
		case ast.KindLink, ast.KindAutoLink:
			s.Links++
		case ast.KindImage:
			s.Images++
		case ast.KindFencedCodeBlock, ast.KindCodeBlock:
			s.CodeBlocks++
		}
		return ast.WalkContinue, nil
	})
	return s
}
