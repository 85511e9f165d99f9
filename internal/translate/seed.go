package translate

import "sort"

type seedEntry struct {
	foreign string
	english string
}

// seedEntries translate frequent ESG phrases without touching any backend.
// Keys are matched case-insensitively, exact first and then as substrings.
var seedEntries = []seedEntry{
	// Norwegian/Danish/Swedish
	{"menneskerettigheter", "human rights"},
	{"korrupsjon", "corruption"},
	{"arbeidsrettigheter", "labour rights"},
	{"barnearbeid", "child labour"},
	{"tvangsarbeid", "forced labour"},
	{"termisk kul", "thermal coal"},
	{"fossile brensler", "fossil fuels"},
	{"olje og gass", "oil and gas"},
	{"klimaendringer", "climate change"},
	{"våpen", "weapons"},
	{"tobakk", "tobacco"},

	// French
	{"droits de l'homme", "human rights"},
	{"corruption", "corruption"},
	{"travail des enfants", "child labour"},
	{"travail forcé", "forced labour"},
	{"charbon thermique", "thermal coal"},
	{"charbon", "coal"},
	{"pétrole et gaz", "oil and gas"},
	{"pétrole", "oil"},
	{"gaz", "gas"},
	{"changement climatique", "climate change"},
	{"armes", "weapons"},
	{"tabac", "tobacco"},

	// German
	{"menschenrechte", "human rights"},
	{"korruption", "corruption"},
	{"kinderarbeit", "child labour"},
	{"zwangsarbeit", "forced labour"},
	{"thermische kohle", "thermal coal"},
	{"kohle", "coal"},
	{"öl und gas", "oil and gas"},
	{"erdöl", "oil"},
	{"klimawandel", "climate change"},
	{"waffen", "weapons"},
	{"tabak", "tobacco"},

	// Dutch
	{"mensenrechten", "human rights"},
	{"corruptie", "corruption"},
	{"gedwongen arbeid", "forced labour"},
	{"thermische kolen", "thermal coal"},
	{"steenkool", "coal"},
	{"kolen", "coal"},
	{"olie en gas", "oil and gas"},
	{"klimaatverandering", "climate change"},
	{"wapens", "weapons"},

	// Spanish
	{"derechos humanos", "human rights"},
	{"corrupción", "corruption"},
	{"trabajo infantil", "child labour"},
	{"trabajo forzoso", "forced labour"},
	{"carbón térmico", "thermal coal"},
	{"carbón", "coal"},
	{"petróleo y gas", "oil and gas"},
	{"cambio climático", "climate change"},
	{"armas", "weapons"},
	{"tabaco", "tobacco"},

	// Italian
	{"diritti umani", "human rights"},
	{"corruzione", "corruption"},
	{"lavoro minorile", "child labour"},
	{"lavoro forzato", "forced labour"},
	{"carbone termico", "thermal coal"},
	{"carbone", "coal"},
	{"petrolio e gas", "oil and gas"},
	{"cambiamento climatico", "climate change"},
	{"armi", "weapons"},
	{"tabacco", "tobacco"},

	// Common abbreviations
	{"co2", "carbon dioxide"},
	{"ghg", "greenhouse gas"},
	{"esg", "environmental social governance"},
}

// seedExact is the exact-match view of seedEntries; seedOrdered holds the
// same entries longest-first so substring lookups prefer the most specific
// phrase ("carbón térmico" before "carbón") deterministically.
var (
	seedExact   map[string]string
	seedOrdered []seedEntry
)

func init() {
	seedExact = make(map[string]string, len(seedEntries))
	for _, e := range seedEntries {
		if _, ok := seedExact[e.foreign]; !ok {
			seedExact[e.foreign] = e.english
		}
	}
	seedOrdered = append(seedOrdered, seedEntries...)
	sort.SliceStable(seedOrdered, func(i, j int) bool {
		return len(seedOrdered[i].foreign) > len(seedOrdered[j].foreign)
	})
}

// nonEnglishWords are function words from major European languages used by
// the foreign-text heuristic.
var nonEnglishWords = map[string]bool{
	// German
	"und": true, "der": true, "die": true, "das": true, "mit": true,
	"für": true, "gegen": true, "wegen": true, "von": true, "zu": true,
	"im": true, "am": true,
	// French
	"et": true, "la": true, "le": true, "des": true, "aux": true,
	"pour": true, "contre": true, "de": true, "du": true, "dans": true,
	"sur": true, "avec": true,
	// Spanish
	"y": true, "el": true, "los": true, "las": true, "por": true,
	"con": true, "en": true, "del": true, "al": true, "para": true,
	// Italian
	"e": true, "di": true, "il": true, "lo": true, "gli": true,
	"per": true, "alla": true,
	// Dutch
	"van": true, "het": true, "voor": true, "met": true, "op": true,
	"aan": true, "door": true, "bij": true,
	// Norwegian/Danish/Swedish
	"og": true, "av": true, "til": true, "for": true, "på": true,
	"i": true, "som": true, "det": true, "er": true,
}
