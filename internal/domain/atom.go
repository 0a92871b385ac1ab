package domain

import (
	"slices"
	"strings"
)

// AtomType is the kind of indicator an atom holds.
type AtomType string

const (
	AtomAPK         AtomType = "apk"
	AtomASN         AtomType = "asn"
	AtomCC          AtomType = "cc"
	AtomCrypto      AtomType = "crypto"
	AtomCVE         AtomType = "cve"
	AtomDomain      AtomType = "domain"
	AtomEmail       AtomType = "email"
	AtomFile        AtomType = "file"
	AtomFQDN        AtomType = "fqdn"
	AtomIBAN        AtomType = "iban"
	AtomIP          AtomType = "ip"
	AtomIPRange     AtomType = "ip_range"
	AtomPaste       AtomType = "paste"
	AtomPhoneNumber AtomType = "phone_number"
	AtomRegKey      AtomType = "regkey"
	AtomSSL         AtomType = "ssl"
	AtomURL         AtomType = "url"
)

//nolint:gochecknoglobals // closed enum listing
var atomTypes = []AtomType{
	AtomAPK, AtomASN, AtomCC, AtomCrypto, AtomCVE, AtomDomain, AtomEmail, AtomFile, AtomFQDN,
	AtomIBAN, AtomIP, AtomIPRange, AtomPaste, AtomPhoneNumber, AtomRegKey, AtomSSL, AtomURL,
}

// AtomTypes returns every supported atom type.
func AtomTypes() []AtomType {
	return slices.Clone(atomTypes)
}

// Valid reports whether the atom type is supported.
func (a AtomType) Valid() bool {
	return slices.Contains(atomTypes, a)
}

// ThreatType is the threat category scored on a threat record.
type ThreatType string

const (
	ThreatDDoS     ThreatType = "ddos"
	ThreatFraud    ThreatType = "fraud"
	ThreatHack     ThreatType = "hack"
	ThreatLeak     ThreatType = "leak"
	ThreatMalware  ThreatType = "malware"
	ThreatPhishing ThreatType = "phishing"
	ThreatScam     ThreatType = "scam"
	ThreatScan     ThreatType = "scan"
	ThreatSpam     ThreatType = "spam"
)

//nolint:gochecknoglobals // closed enum listing
var threatTypes = []ThreatType{
	ThreatDDoS, ThreatFraud, ThreatHack, ThreatLeak, ThreatMalware,
	ThreatPhishing, ThreatScam, ThreatScan, ThreatSpam,
}

// ThreatTypes returns every supported threat type.
func ThreatTypes() []ThreatType {
	return slices.Clone(threatTypes)
}

// Valid reports whether the threat type is supported.
func (t ThreatType) Valid() bool {
	return slices.Contains(threatTypes, t)
}

// JoinAtomTypes renders atom types for help text and error messages.
func JoinAtomTypes(types []AtomType) string {
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}

// AtomFilter decides which input atoms are dropped before they are sent.
type AtomFilter interface {
	ShouldExclude(value string) bool
}
