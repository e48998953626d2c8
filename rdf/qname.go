package rdf

import "strings"

func isQNameLocal(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		ch := value[i]
		if i == 0 {
			if !isNameStartChar(ch) {
				return false
			}
		} else if !isNameChar(ch) {
			return false
		}
	}
	return true
}

func isNameStartChar(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') || ch == '_'
}

func isNameChar(ch byte) bool {
	return isNameStartChar(ch) || (ch >= '0' && ch <= '9') || ch == '-'
}

// abbreviateQName compacts an IRI to prefix:local against the declared
// prefixes, preferring the longest matching namespace.
func abbreviateQName(iri string, prefixes *PrefixMap) (string, bool) {
	if prefixes.Len() == 0 {
		return "", false
	}
	bestNS := ""
	bestLabel := ""
	found := false
	for _, label := range prefixes.Labels() {
		ns, _ := prefixes.Get(label)
		if ns == "" || !strings.HasPrefix(iri, ns) {
			continue
		}
		local := iri[len(ns):]
		if !isQNameLocal(local) {
			continue
		}
		if len(ns) > len(bestNS) {
			bestNS = ns
			bestLabel = label
			found = true
		}
	}
	if !found {
		return "", false
	}
	return bestLabel + ":" + iri[len(bestNS):], true
}

// splitIRIForQName splits an IRI at its last '#' or '/' into a
// namespace and an XML-name-safe local part.
func splitIRIForQName(iri string) (string, string, bool) {
	idx := strings.LastIndexAny(iri, "#/")
	if idx <= 0 || idx+1 >= len(iri) {
		return "", "", false
	}
	ns := iri[:idx+1]
	local := iri[idx+1:]
	if !isQNameLocal(local) {
		return "", "", false
	}
	return ns, local, true
}
