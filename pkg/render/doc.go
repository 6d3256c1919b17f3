// Package render converts rendered SVG into other formats.
//
// [ToPDF] and [ToPNG] shell out to rsvg-convert from librsvg. Diagram
// generation lives in the [nodelink] subpackage.
//
// [nodelink]: github.com/matzehuels/topolayer/pkg/render/nodelink
package render
