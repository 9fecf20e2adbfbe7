package local

import "github.com/bryanwahyu/purelabel/internal/domain/labels"

// Entry is the health metadata known for one ingredient.
type Entry struct {
	Key         string // lowercase match key
	SimpleName  string
	Purpose     string
	Impact      labels.Impact
	Explanation string
	Tradeoff    *labels.Tradeoff
}

// knowledgeBase is iterated in declaration order; that order decides which
// entries survive deduplication and truncation.
var knowledgeBase = []Entry{
	// noodles
	{Key: "wheat flour", SimpleName: "Refined Wheat", Purpose: "Base", Impact: labels.ImpactNeutral, Explanation: "Standard refined flour, low in fiber."},
	{Key: "palm oil", SimpleName: "Palm Oil", Purpose: "Cooking Fat", Impact: labels.ImpactCaution, Explanation: "High in saturated fats; environmental concerns.",
		Tradeoff: &labels.Tradeoff{Benefit: "Shelf stability", Cost: "High saturated fat load"}},
	{Key: "wheat gluten", SimpleName: "Wheat Protein", Purpose: "Texture", Impact: labels.ImpactNeutral, Explanation: "Natural protein from wheat that gives chewiness."},
	{Key: "potassium chloride", SimpleName: "Salt Substitute", Purpose: "Mineral", Impact: labels.ImpactNeutral, Explanation: "Often used to reduce sodium content."},
	{Key: "guar gum", SimpleName: "Guar Fiber", Purpose: "Thickener", Impact: labels.ImpactPositive, Explanation: "Natural fiber from guar beans used to bind."},
	{Key: "sodium tripolyphosphate", SimpleName: "STPP (Stabilizer)", Purpose: "Texture", Impact: labels.ImpactCaution, Explanation: "Helps retain moisture and improve noodle texture."},
	{Key: "potassium carbonate", SimpleName: "Alkaline Salt", Purpose: "Acidity Regulator", Impact: labels.ImpactNeutral, Explanation: "Used to give noodles their yellow color and springy texture."},
	{Key: "caramel color", SimpleName: "Caramel Dye", Purpose: "Coloring", Impact: labels.ImpactCaution, Explanation: "A common food dye; some classes are strictly regulated."},

	// juices and beverages
	{Key: "mixed fruit juice concentrate", SimpleName: "Fruit Sugars", Purpose: "Flavor/Base", Impact: labels.ImpactNeutral, Explanation: "Fruit juice with water removed; natural but high in sugar."},
	{Key: "ins 330", SimpleName: "Citric Acid", Purpose: "Tang/Preservative", Impact: labels.ImpactNeutral, Explanation: "Naturally occurring acid providing tartness."},
	{Key: "citric acid", SimpleName: "Citric Acid", Purpose: "Tang/Preservative", Impact: labels.ImpactNeutral, Explanation: "Standard acidity regulator."},
	{Key: "ins 300", SimpleName: "Vitamin C", Purpose: "Antioxidant", Impact: labels.ImpactPositive, Explanation: "Essential nutrient used here to prevent oxidation."},
	{Key: "ascorbic acid", SimpleName: "Vitamin C", Purpose: "Antioxidant", Impact: labels.ImpactPositive, Explanation: "Pure Vitamin C."},
	{Key: "sugar", SimpleName: "Refined Sugar", Purpose: "Sweetener", Impact: labels.ImpactCaution, Explanation: "Adds calories without nutrition; spikes blood sugar."},

	// cola
	{Key: "carbonated water", SimpleName: "Fizzy Water", Purpose: "Base", Impact: labels.ImpactNeutral, Explanation: "Water infused with carbon dioxide."},
	{Key: "phosphoric acid", SimpleName: "Acidulant", Purpose: "Sharp Flavor", Impact: labels.ImpactCaution, Explanation: "Provides the signature 'bite'; can affect bone minerals in excess."},
	{Key: "caffeine", SimpleName: "Caffeine", Purpose: "Stimulant", Impact: labels.ImpactNeutral, Explanation: "Natural stimulant; provides energy boost but can cause jitters."},
	{Key: "natural flavors", SimpleName: "Aroma Compounds", Purpose: "Flavor", Impact: labels.ImpactNeutral, Explanation: "Proprietary flavor extracts from natural sources."},

	// snacks
	{Key: "rice meal", SimpleName: "Rice Flour", Purpose: "Base", Impact: labels.ImpactPositive, Explanation: "A gluten-free carbohydrate source."},
	{Key: "corn meal", SimpleName: "Corn Flour", Purpose: "Base", Impact: labels.ImpactNeutral, Explanation: "Standard grain-based snack base."},
	{Key: "gram meal", SimpleName: "Chickpea Flour", Purpose: "Protein/Texture", Impact: labels.ImpactPositive, Explanation: "High-protein flour made from ground chickpeas."},
	{Key: "palmolein oil", SimpleName: "Liquid Palm Fat", Purpose: "Frying Oil", Impact: labels.ImpactCaution, Explanation: "The liquid fraction of palm oil."},
	{Key: "onion powder", SimpleName: "Dried Onion", Purpose: "Flavoring", Impact: labels.ImpactPositive, Explanation: "Natural vegetable extract."},
	{Key: "chilli powder", SimpleName: "Spices", Purpose: "Heat/Flavor", Impact: labels.ImpactPositive, Explanation: "Natural spice providing antioxidants."},
	{Key: "amchur", SimpleName: "Mango Powder", Purpose: "Tangy Spice", Impact: labels.ImpactPositive, Explanation: "Dried green mango powder; a natural flavoring."},
	{Key: "ginger powder", SimpleName: "Dried Ginger", Purpose: "Flavoring", Impact: labels.ImpactPositive, Explanation: "Natural root extract with anti-inflammatory properties."},
	{Key: "salt", SimpleName: "Table Salt", Purpose: "Seasoning", Impact: labels.ImpactNeutral, Explanation: "Essential mineral, but best consumed in moderation."},

	// common additives
	{Key: "sucralose", SimpleName: "Splenda", Purpose: "Sweetener", Impact: labels.ImpactCaution, Explanation: "Zero-calorie, but affects gut health."},
	{Key: "carrageenan", SimpleName: "Seaweed Thickener", Purpose: "Texture", Impact: labels.ImpactCaution, Explanation: "May cause digestive inflammation."},
	{Key: "sodium benzoate", SimpleName: "Preservative", Purpose: "Shelf-life", Impact: labels.ImpactCaution, Explanation: "Common preservative."},
	{Key: "red 40", SimpleName: "Synthetic Red Dye", Purpose: "Coloring", Impact: labels.ImpactNegative, Explanation: "Purely aesthetic, linked to hyperactivity."},
}

// Entries returns a copy of the knowledge base in iteration order.
func Entries() []Entry {
	out := make([]Entry, len(knowledgeBase))
	copy(out, knowledgeBase)
	return out
}
