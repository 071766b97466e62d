package outfit

import (
	"sort"
	"strings"
)

// Signature derives an order-independent identity from item ids: blanks are
// dropped, the rest sorted and joined with "|". Two outfits built from the
// same items produce the same signature no matter which slot holds what.
func Signature(ids []string) string {
	clean := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			clean = append(clean, id)
		}
	}
	if len(clean) == 0 {
		return ""
	}
	sort.Strings(clean)
	return strings.Join(clean, "|")
}

// SignatureSet tracks known outfit signatures. The set is an explicit value
// owned by the caller, rebuilt from the authoritative store on load.
type SignatureSet map[string]struct{}

func NewSignatureSet(sigs ...string) SignatureSet {
	set := make(SignatureSet, len(sigs))
	for _, sig := range sigs {
		set.Add(sig)
	}
	return set
}

func (s SignatureSet) Add(sig string) {
	if sig != "" {
		s[sig] = struct{}{}
	}
}

func (s SignatureSet) Has(sig string) bool {
	_, ok := s[sig]
	return ok
}
