package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer descompone (NFD), elimina marcas diacríticas y recompone (NFC).
// Así "Azúcar" y "azucar" coinciden en las búsquedas de catálogo y pedidos.
var foldTransformer = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// NormalizeTerm normaliza un término de búsqueda: minúsculas, sin tildes y sin
// espacios sobrantes. Retorna cadena vacía si el término queda vacío.
func NormalizeTerm(term string) string {
	term = strings.TrimSpace(strings.ToLower(term))
	if term == "" {
		return ""
	}
	folded, _, err := transform.String(foldTransformer, term)
	if err != nil {
		return term
	}
	return folded
}
