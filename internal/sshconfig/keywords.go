// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

package sshconfig

import (
	"sort"
	"strings"
)

// AllowedKeywords is the default-deny allow-list of ssh client options that can
// be distributed to other users without enabling command execution, credential
// leaks or host identity bypass. Keys are lower case.
//
// Host, HostName, User, ProxyJump, RemoteCommand and HostKeyAlias are not part
// of this set; the transformer handles them itself.
var AllowedKeywords = map[string]struct{}{
	"addkeystoagent":                   {},
	"addressfamily":                    {},
	"batchmode":                        {},
	"bindaddress":                      {},
	"bindinterface":                    {},
	"canonicaldomains":                 {},
	"canonicalizefallbacklocal":        {},
	"canonicalizehostname":             {},
	"canonicalizemaxdots":              {},
	"canonicalizepermittedcnames":      {},
	"casignaturealgorithms":            {},
	"certificatefile":                  {},
	"challengeresponseauthentication":  {},
	"ciphers":                          {},
	"clearallforwardings":              {},
	"compression":                      {},
	"connectionattempts":               {},
	"connecttimeout":                   {},
	"controlmaster":                    {},
	"controlpath":                      {},
	"controlpersist":                   {},
	"dynamicforward":                   {},
	"enablesshkeysign":                 {},
	"escapechar":                       {},
	"exitonforwardfailure":             {},
	"fingerprinthash":                  {},
	"gatewayports":                     {},
	"globalknownhostsfile":             {},
	"gssapiauthentication":             {},
	"gssapiclientidentity":             {},
	"gssapikeyexchange":                {},
	"gssapirenewalforcesrekey":         {},
	"gssapiserveridentity":             {},
	"gssapitrustdns":                   {},
	"hostbasedauthentication":          {},
	"hostbasedkeytypes":                {},
	"hostkeyalgorithms":                {},
	"identitiesonly":                   {},
	"identityagent":                    {},
	"identityfile":                     {},
	"ignoreunknown":                    {},
	"ipqos":                            {},
	"kbdinteractiveauthentication":     {},
	"kbdinteractivedevices":            {},
	"kexalgorithms":                    {},
	"localforward":                     {},
	"loglevel":                         {},
	"macs":                             {},
	"nohostauthenticationforlocalhost": {},
	"numberofpasswordprompts":          {},
	"passwordauthentication":           {},
	"pkcs11provider":                   {},
	"port":                             {},
	"preferredauthentications":         {},
	"pubkeyacceptedkeytypes":           {},
	"pubkeyauthentication":             {},
	"rekeylimit":                       {},
	"remoteforward":                    {},
	"requesttty":                       {},
	"revokedhostkeys":                  {},
	"serveralivecountmax":              {},
	"serveraliveinterval":              {},
	"setenv":                           {},
	"streamlocalbindmask":              {},
	"streamlocalbindunlink":            {},
	"syslogfacility":                   {},
	"tcpkeepalive":                     {},
	"tunnel":                           {},
	"tunneldevice":                     {},
}

// ExcludedKeywords documents options that are deliberately kept off the
// allow-list, keyed by their canonical spelling. Changing this list changes the
// trust boundary of distributed configs.
var ExcludedKeywords = map[string]string{
	"Match":                     "Match exec runs arbitrary commands.",
	"ForwardAgent":              "The remote side could use the victim's agent.",
	"ForwardX11":                "The remote side could use the victim's display.",
	"ForwardX11Timeout":         "The remote side could use the victim's display.",
	"ForwardX11Trusted":         "The remote side could use the victim's display.",
	"GSSAPIDelegateCredentials": "A malicious target could steal delegated credentials.",
	"HashKnownHosts":            "Disabling hashing weakens client-side secrecy of known hosts.",
	"CheckHostIP":               "Host key checks are security critical.",
	"HostKeyAlias":              "Host key checks are security critical; only the injected alias equal to the Host name is accepted.",
	"StrictHostKeyChecking":     "Host key checks are security critical.",
	"UpdateHostKeys":            "Host key checks are security critical.",
	"UserKnownHostsFile":        "Host key checks are security critical.",
	"VerifyHostKeyDNS":          "Host key checks are security critical.",
	"VisualHostKey":             "Host key checks are security critical.",
	"Include":                   "Included files would bypass every other check.",
	"LocalCommand":              "Runs arbitrary local commands.",
	"PermitLocalCommand":        "Enables LocalCommand.",
	"ProxyCommand":              "Runs arbitrary local commands.",
	"ProxyUseFdpass":            "Only useful together with ProxyCommand.",
	"RemoteCommand":             "Runs commands on the target; only whitelisted programs in single-host blocks are accepted.",
	"XAuthLocation":             "Runs an arbitrary xauth program.",
	"SendEnv":                   "Environment variables could leak secrets.",
}

// special is a keyword the transformer handles itself.
type special int

const (
	notSpecial special = iota
	specialHost
	specialHostName
	specialUser
	specialRemoteCommand
	specialProxyJump
	specialHostKeyAlias
)

var specialKeywords = map[string]special{
	"host":          specialHost,
	"hostname":      specialHostName,
	"user":          specialUser,
	"remotecommand": specialRemoteCommand,
	"proxyjump":     specialProxyJump,
	"hostkeyalias":  specialHostKeyAlias,
}

func lookupSpecial(keyword string) special {
	return specialKeywords[strings.ToLower(keyword)]
}

// IsAllowed reports whether keyword is on the generic allow-list. The check is
// case-insensitive.
func IsAllowed(keyword string) bool {
	_, ok := AllowedKeywords[strings.ToLower(keyword)]
	return ok
}

// SortedAllowed returns the allow-list in alphabetical order.
func SortedAllowed() []string {
	out := make([]string, 0, len(AllowedKeywords))
	for k := range AllowedKeywords {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
