package sheetforge

import (
	"regexp"
	"strings"

	"github.com/xuri/efp"
)

// dynamicArrayFunctions get the `_xlfn.` namespace prefix.
var dynamicArrayFunctions = map[string]bool{
	"ANCHORARRAY": true, "LAMBDA": true, "LET": true, "RANDARRAY": true,
	"SEQUENCE": true, "SINGLE": true, "SORTBY": true, "UNIQUE": true,
	"XLOOKUP": true, "XMATCH": true,
}

// xlwsFunctions get the `_xlfn._xlws.` namespace prefix.
var xlwsFunctions = map[string]bool{
	"FILTER": true, "SORT": true,
}

// futureFunctions is the Excel 2010+ function set that gets the `_xlfn.`
// prefix whenever future-function expansion is requested. Carried over in
// full from original_source/src/format.rs's companion tables rather than a
// partial list, per SPEC_FULL.md §4.
var futureFunctions = map[string]bool{
	"ACOTH": true, "AGGREGATE": true, "ARABIC": true, "BASE": true, "BETA.DIST": true,
	"BETA.INV": true, "BINOM.DIST": true, "BINOM.DIST.RANGE": true, "BINOM.INV": true,
	"BITAND": true, "BITLSHIFT": true, "BITOR": true, "BITRSHIFT": true, "BITXOR": true,
	"CEILING.MATH": true, "CEILING.PRECISE": true, "CHISQ.DIST": true, "CHISQ.DIST.RT": true,
	"CHISQ.INV": true, "CHISQ.INV.RT": true, "CHISQ.TEST": true, "COMBINA": true,
	"CONCAT": true, "CONFIDENCE.NORM": true, "CONFIDENCE.T": true, "COT": true, "COTH": true,
	"COVARIANCE.P": true, "COVARIANCE.S": true, "CSC": true, "CSCH": true, "DAYS": true,
	"DECIMAL": true, "ERF.PRECISE": true, "ERFC.PRECISE": true, "EXPON.DIST": true,
	"F.DIST": true, "F.DIST.RT": true, "F.INV": true, "F.INV.RT": true, "F.TEST": true,
	"FILTERXML": true, "FLOOR.MATH": true, "FLOOR.PRECISE": true, "FORECAST.ETS": true,
	"FORECAST.ETS.CONFINT": true, "FORECAST.ETS.SEASONALITY": true, "FORECAST.ETS.STAT": true,
	"FORECAST.LINEAR": true, "FORMULATEXT": true, "GAMMA": true, "GAMMA.DIST": true,
	"GAMMA.INV": true, "GAMMALN.PRECISE": true, "GAUSS": true, "HYPGEOM.DIST": true,
	"IFNA": true, "IFS": true, "IMCOSH": true, "IMCOT": true, "IMCSC": true, "IMCSCH": true,
	"IMSEC": true, "IMSECH": true, "IMSINH": true, "IMTAN": true, "ISFORMULA": true,
	"ISOWEEKNUM": true, "LOGNORM.DIST": true, "LOGNORM.INV": true, "MAXIFS": true,
	"MINIFS": true, "MODE.MULT": true, "MODE.SNGL": true, "MUNIT": true, "NEGBINOM.DIST": true,
	"NORM.DIST": true, "NORM.INV": true, "NORM.S.DIST": true, "NORM.S.INV": true,
	"NUMBERVALUE": true, "PDURATION": true, "PERCENTILE.EXC": true, "PERCENTILE.INC": true,
	"PERCENTRANK.EXC": true, "PERCENTRANK.INC": true, "PERMUTATIONA": true, "PHI": true,
	"POISSON.DIST": true, "QUARTILE.EXC": true, "QUARTILE.INC": true, "QUERYSTRING": true,
	"RANK.AVG": true, "RANK.EQ": true, "RRI": true, "SEC": true, "SECH": true, "SHEET": true,
	"SHEETS": true, "SKEW.P": true, "STDEV.P": true, "STDEV.S": true, "SWITCH": true,
	"T.DIST": true, "T.DIST.2T": true, "T.DIST.RT": true, "T.INV": true, "T.INV.2T": true,
	"T.TEST": true, "TEXTJOIN": true, "TEXTBEFORE": true, "TEXTAFTER": true, "UNICHAR": true,
	"UNICODE": true, "VAR.P": true, "VAR.S": true, "WEBSERVICE": true, "WEIBULL.DIST": true,
	"XOR": true, "Z.TEST": true,
}

var excelParser = efp.ExcelParser()

// wordReplace prefixes each whole-word occurrence of a name in set. A match
// touching a '.' is part of a longer dotted name or already prefixed, so it is skipped.
func wordReplace(formula string, set map[string]bool, prefix string) string {
	for name := range set {
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
		var b strings.Builder
		last := 0
		for _, loc := range re.FindAllStringIndex(formula, -1) {
			if (loc[0] > 0 && formula[loc[0]-1] == '.') || (loc[1] < len(formula) && formula[loc[1]] == '.') {
				continue
			}
			b.WriteString(formula[last:loc[0]])
			b.WriteString(prefix)
			last = loc[0]
		}
		b.WriteString(formula[last:])
		formula = b.String()
	}
	return formula
}

// PrepareFormula canonicalizes a caller-supplied formula string: strips a
// leading `{`/`=` and a trailing `}`, then rewrites dynamic-array and
// future functions with their required `_xlfn.`/`_xlfn._xlws.` namespace
// prefixes. Idempotent: PrepareFormula(PrepareFormula(f)) == PrepareFormula(f).
func PrepareFormula(formula string, expandFuture bool) string {
	f := formula
	if strings.HasPrefix(f, "{") {
		f = f[1:]
	}
	if strings.HasPrefix(f, "=") {
		f = f[1:]
	}
	if strings.HasSuffix(f, "}") {
		f = f[:len(f)-1]
	}
	if strings.Contains(f, "_xlfn.") {
		return f
	}
	f = wordReplace(f, dynamicArrayFunctions, "_xlfn.")
	f = wordReplace(f, xlwsFunctions, "_xlfn._xlws.")
	if expandFuture {
		f = wordReplace(f, futureFunctions, "_xlfn.")
	}
	return f
}

// isDynamicSet is the membership test used by IsDynamicFunction: the union
// of dynamicArrayFunctions (ANCHORARRAY included) and xlwsFunctions,
// matching spec.md §4.E.
var isDynamicSet = func() map[string]bool {
	s := map[string]bool{}
	for k := range dynamicArrayFunctions {
		s[k] = true
	}
	for k := range xlwsFunctions {
		s[k] = true
	}
	return s
}()

// IsDynamicFunction tokenizes formula with the real Excel grammar (via
// xuri/efp) and reports whether any function-call token names a dynamic
// array function. Tokenizing rather than substring-matching means a
// function name that merely appears inside a string literal operand (e.g.
// `="the word SORT"`) is never mistaken for a call to SORT.
func IsDynamicFunction(formula string) bool {
	tokens := excelParser.Parse(strings.TrimPrefix(strings.TrimPrefix(formula, "{"), "="))
	if tokens == nil {
		return false
	}
	for _, tok := range tokens {
		if tok.TType == efp.TokenTypeFunction && tok.TSubType == efp.TokenSubTypeStart {
			name := strings.ToUpper(strings.TrimSuffix(tok.TValue, "("))
			if isDynamicSet[name] {
				return true
			}
		}
	}
	return false
}
