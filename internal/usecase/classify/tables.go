package classify

import (
	"regexp"

	"github.com/pandect-io/pandect/internal/domain"
)

// The classifier is table-driven: every legal domain, intent, and entity type
// maps to an ordered list of compiled matchers covering all three corpus
// languages. Tables are package-level immutable data; evaluation holds no
// shared mutable state.

type domainPatterns struct {
	name     string
	patterns []*regexp.Regexp
}

type intentPatterns struct {
	name     string
	patterns []*regexp.Regexp
}

type entityPatterns struct {
	entityType domain.EntityType
	patterns   []*regexp.Regexp
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// domainTable buckets questions into legal domains by pattern match count.
// Order matters only for ties: the earlier bucket wins.
var domainTable = []domainPatterns{
	{name: "travail", patterns: compileAll(
		`(?i)\blicenciements?\b|\bpréavis\b|\bdémission\b|\bcontrat de travail\b`,
		`(?i)\bsalaires?\b|\bcongés?\b|\bemployeurs?\b|\bsalariés?\b|\btravailleurs?\b`,
		`(?i)\bkündigung\b|\barbeitsvertrag\b|\barbeitnehmer\b|\barbeitgeber\b|\blohn\b|\burlaub\b`,
		`(?i)\bdismissal\b|\bemployment contract\b|\bnotice period\b|\bwages?\b|\bemployees?\b`,
	)},
	{name: "fiscal", patterns: compileAll(
		`(?i)\bimpôts?\b|\btaxes?\b|\btva\b|\bfiscal(?:e|es|ité)?\b`,
		`(?i)\bsteuern?\b|\bmehrwertsteuer\b|\bsteuererklärung\b`,
		`(?i)\btaxation\b|\bvat\b|\btax (?:return|rate|deduction)\b`,
	)},
	{name: "immobilier", patterns: compileAll(
		`(?i)\bbail\b|\bloyers?\b|\blocataires?\b|\bbailleurs?\b|\bhypothèques?\b`,
		`(?i)\bmietvertrag\b|\bmiete\b|\bmieter\b|\bvermieter\b|\bhypothek\b`,
		`(?i)\blease\b|\brent\b|\btenants?\b|\blandlords?\b|\bmortgage\b`,
	)},
	{name: "famille", patterns: compileAll(
		`(?i)\bdivorces?\b|\bmariages?\b|\bpension alimentaire\b|\bgarde des enfants\b`,
		`(?i)\bsuccessions?\b|\bhéritages?\b|\btestaments?\b`,
		`(?i)\bscheidung\b|\behe\b|\bunterhalt\b|\bsorgerecht\b|\berbschaft\b`,
		`(?i)\bmarriage\b|\bcustody\b|\balimony\b|\binheritance\b`,
	)},
	{name: "penal", patterns: compileAll(
		`(?i)\binfractions?\b|\bdélits?\b|\bcrimes?\b|\bpeines?\b|\bvols?\b|\bprison\b`,
		`(?i)\bstraftat\b|\bstrafe\b|\bgeldstrafe\b|\bdiebstahl\b|\bgefängnis\b`,
		`(?i)\boffences?\b|\bcriminal\b|\btheft\b|\bimprisonment\b`,
	)},
	{name: "social", patterns: compileAll(
		`(?i)\bsécurité sociale\b|\bretraites?\b|\ballocations?\b|\bchômage\b|\bindemnités? de maladie\b`,
		`(?i)\bsozialversicherung\b|\brente\b|\barbeitslosengeld\b|\bkrankengeld\b`,
		`(?i)\bsocial security\b|\bpension\b|\bunemployment benefits?\b`,
	)},
	{name: "consommation", patterns: compileAll(
		`(?i)\bconsommateurs?\b|\bgaranties?\b|\bremboursements?\b|\brétractation\b|\bvente à distance\b`,
		`(?i)\bverbraucher\b|\bgewährleistung\b|\bwiderruf\b|\brückerstattung\b`,
		`(?i)\bconsumers?\b|\bwarranty\b|\brefunds?\b|\bwithdrawal right\b`,
	)},
	{name: "commercial", patterns: compileAll(
		`(?i)\bsociétés?\b|\bcommerçants?\b|\bfaillites?\b|\bfonds de commerce\b|\bsarl\b|\bs\.à r\.l\.`,
		`(?i)\bgesellschaft\b|\bkonkurs\b|\binsolvenz\b|\bhandelsrecht\b`,
		`(?i)\bcompany\b|\bbankruptcy\b|\binsolvency\b|\bcommercial register\b`,
	)},
	{name: "administratif", patterns: compileAll(
		`(?i)\bpermis\b|\bautorisations?\b|\bfonctionnaires?\b|\brecours administratif\b`,
		`(?i)\bgenehmigung\b|\bverwaltung\b|\bbeamte[rn]?\b`,
		`(?i)\bpermits?\b|\badministrative\b|\bcivil servants?\b`,
	)},
	{name: "propriete_intellectuelle", patterns: compileAll(
		`(?i)\bmarques?\b|\bbrevets?\b|\bdroits? d'auteur\b|\bpropriété intellectuelle\b`,
		`(?i)\bmarke\b|\bpatente?\b|\burheberrecht\b`,
		`(?i)\btrademarks?\b|\bpatents?\b|\bcopyright\b|\bintellectual property\b`,
	)},
	{name: "environnement", patterns: compileAll(
		`(?i)\benvironnement\b|\bpollution\b|\bdéchets\b|\bémissions?\b`,
		`(?i)\bumwelt\b|\babfall\b|\bemissionen\b`,
		`(?i)\benvironmental\b|\bwaste disposal\b`,
	)},
	{name: "civil", patterns: compileAll(
		`(?i)\bcontrats?\b|\bresponsabilité civile\b|\bdommages?\b|\bprescription\b|\bobligations?\b`,
		`(?i)\bvertrag\b|\bhaftung\b|\bschadenersatz\b|\bverjährung\b`,
		`(?i)\bcontracts?\b|\bliability\b|\bdamages\b|\blimitation period\b`,
	)},
}

// intentTable is evaluated in order; the first intent with any match wins.
var intentTable = []intentPatterns{
	{name: "definition", patterns: compileAll(
		`(?i)\bqu'est[- ]ce que\b|\bque signifie\b|\bdéfinition\b|\bc'est quoi\b`,
		`(?i)\bwas ist\b|\bwas bedeutet\b`,
		`(?i)\bwhat is\b|\bwhat does .+ mean\b|\bmeaning of\b`,
	)},
	{name: "procedure", patterns: compileAll(
		`(?i)\bcomment\b|\bquelles? (?:sont les )?démarches?\b|\bquelle procédure\b`,
		`(?i)\bwie (?:kann|muss|gehe)\b|\bwelches verfahren\b`,
		`(?i)\bhow (?:do|can|to)\b|\bwhat steps\b|\bprocedure for\b`,
	)},
	{name: "delai", patterns: compileAll(
		`(?i)\bdélais?\b|\bcombien de temps\b|\bquand\b|\bsous quel délai\b`,
		`(?i)\bfrist\b|\bwie lange\b|\bwann\b`,
		`(?i)\bdeadline\b|\bhow long\b|\bwhen (?:do|can|must)\b`,
	)},
	{name: "sanction", patterns: compileAll(
		`(?i)\bsanctions?\b|\bamendes?\b|\bque risque\b|\bpunition\b`,
		`(?i)\bsanktion(?:en)?\b|\bstrafen?\b|\bbußgeld\b`,
		`(?i)\bpenalt(?:y|ies)\b|\bpunishment\b|\bfines?\b|\bwhat .+ risk\b`,
	)},
	{name: "montant", patterns: compileAll(
		`(?i)\bcombien\b|\bmontants?\b|\bquel (?:coût|prix)\b`,
		`(?i)\bwie ?viel\b|\bbetrag\b|\bkosten\b`,
		`(?i)\bhow much\b|\bamount of\b|\bcost of\b`,
	)},
	{name: "droits", patterns: compileAll(
		`(?i)\bai[- ]je le droit\b|\bmes droits\b|\bpuis[- ]je\b|\ba[- ]t[- ]on le droit\b`,
		`(?i)\bhabe ich (?:das recht|anspruch)\b|\bdarf ich\b`,
		`(?i)\bam i entitled\b|\bmy rights\b|\bcan i\b|\bdo i have the right\b`,
	)},
	{name: "obligation", patterns: compileAll(
		`(?i)\bdois[- ]je\b|\bobligatoires?\b|\bsuis[- ]je (?:tenu|obligé)\b`,
		`(?i)\bmuss ich\b|\bbin ich verpflichtet\b|\bverpflichtend\b`,
		`(?i)\bmust i\b|\bam i (?:required|obliged)\b|\bmandatory\b`,
	)},
	{name: "validite", patterns: compileAll(
		`(?i)\bvalides?\b|\bvalables?\b|\best[- ](?:ce|il|elle) légal\b|\blicite\b`,
		`(?i)\bgültig\b|\brechtmäßig\b|\bzulässig\b`,
		`(?i)\bvalid\b|\bis it legal\b|\blawful\b`,
	)},
	{name: "recours", patterns: compileAll(
		`(?i)\brecours\b|\bcontester\b|\bfaire appel\b|\bopposition\b`,
		`(?i)\beinspruch\b|\banfechten\b|\bberufung\b|\bwiderspruch\b`,
		`(?i)\bappeal\b|\bchallenge\b|\bcontest\b|\bobject to\b`,
	)},
	{name: "comparaison", patterns: compileAll(
		`(?i)\bdifférence entre\b|\bquelle différence\b`,
		`(?i)\bunterschied zwischen\b`,
		`(?i)\bdifference between\b|\bversus\b|\bcompared? to\b`,
	)},
}

// entityTable is the fixed regex battery run over every question. When a
// pattern has a capture group, the group is kept instead of the full match.
var entityTable = []entityPatterns{
	{entityType: domain.EntityLawRef, patterns: compileAll(
		`(?i)\bloi (?:modifiée )?du \d{1,2}(?:er)? \p{L}+ \d{4}`,
		`(?i)\bgesetz vom \d{1,2}\.? ?\p{L}+ \d{4}`,
		`(?i)\b(?:law|act) of \d{1,2} \p{L}+ \d{4}`,
		`(?i)\bcode (?:du travail|civil|pénal|de commerce|de la consommation)\b`,
	)},
	{entityType: domain.EntityDecreeRef, patterns: compileAll(
		`(?i)\b(?:règlement(?: grand-ducal)?|décret|arrêté) (?:n[°o] ?[\d/.-]+|du \d{1,2}(?:er)? \p{L}+ \d{4})`,
		`(?i)\bverordnung (?:nr\.? ?[\d/.-]+|vom \d{1,2}\.? ?\p{L}+ \d{4})`,
		`(?i)\b(?:decree|regulation) (?:no\.? ?[\d/.-]+|of \d{1,2} \p{L}+ \d{4})`,
	)},
	{entityType: domain.EntityArticle, patterns: compileAll(
		`(?i)\bart(?:icle|ikel|\.) ?([LRD]?\.? ?\d+(?:[-.]\d+)*)`,
	)},
	{entityType: domain.EntityDate, patterns: compileAll(
		`(?i)\b\d{1,2}(?:er)?\.? (?:janvier|février|mars|avril|mai|juin|juillet|août|septembre|octobre|novembre|décembre|januar|februar|märz|april|juni|juli|august|september|oktober|november|dezember|january|february|march|may|june|july|october|december) \d{4}\b`,
		`\b\d{1,2}[./]\d{1,2}[./]\d{4}\b`,
	)},
	{entityType: domain.EntityAmount, patterns: compileAll(
		`(?i)\b\d[\d .,]*\s?(?:euros?\b|eur\b|€)`,
	)},
	{entityType: domain.EntityDuration, patterns: compileAll(
		`(?i)\b\d+ ?(?:jours?|semaines?|mois|ans?|années?|tagen?|wochen?|monaten?|jahren?|days?|weeks?|months?|years?)\b`,
	)},
	{entityType: domain.EntityActor, patterns: compileAll(
		`(?i)\b(employeurs?|salariés?|employés?|travailleurs?|bailleurs?|locataires?|consommateurs?|vendeurs?|acheteurs?|arbeitgeber|arbeitnehmer|vermieter|mieter|verbraucher|employers?|employees?|workers?|landlords?|tenants?|consumers?)\b`,
	)},
}
