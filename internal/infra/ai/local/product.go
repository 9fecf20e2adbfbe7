package local

import "strings"

// DefaultProductName is used when no brand keyword is present.
const DefaultProductName = "Local Scan"

type productRule struct {
	keyword string
	name    string
}

// productRules are checked in order and a later match overwrites an earlier
// one, so the last matching rule wins.
var productRules = []productRule{
	{keyword: "maggi", name: "Maggi Noodles"},
	{keyword: "real", name: "Real Fruit Juice"},
	{keyword: "cola", name: "Coca Cola"},
	{keyword: "kurkure", name: "Kurkure Snacks"},
}

// DetectProduct guesses the product from already lower-cased text.
func DetectProduct(normalized string) string {
	name := DefaultProductName
	for _, r := range productRules {
		if strings.Contains(normalized, r.keyword) {
			name = r.name
		}
	}
	return name
}
