package config

import (
	"net/url"
	"strings"
)

// Apps holds the base URL of each sibling app on the shared domain.
type Apps struct {
	Web            string `json:"web" yaml:"web"`
	Core           string `json:"core" yaml:"core"`
	Identity       string `json:"identity" yaml:"identity"`
	IdentityAPI    string `json:"identityApi" yaml:"identity_api"`
	Blog           string `json:"blog" yaml:"blog"`
	TaskManagement string `json:"taskManagement" yaml:"task_management"`
	SmartOps       string `json:"smartOps" yaml:"smart_ops"`
	Testora        string `json:"testora" yaml:"testora"`
}

var localApps = Apps{
	Web:            "http://web.asafarim.local:5175",
	Core:           "http://core.asafarim.local:5174",
	Identity:       "http://identity.asafarim.local:5177",
	IdentityAPI:    "http://identity.asafarim.local:5101",
	Blog:           "http://blog.asafarim.local:3000",
	TaskManagement: "http://taskmanagement.asafarim.local:5176",
	SmartOps:       "http://smartops.asafarim.local:5180",
	Testora:        "http://testora.asafarim.local:5181",
}

var productionApps = Apps{
	Web:            "https://asafarim.be",
	Core:           "https://core.asafarim.be",
	Identity:       "https://identity.asafarim.be",
	IdentityAPI:    "https://identity.asafarim.be",
	Blog:           "https://blog.asafarim.be",
	TaskManagement: "https://taskmanagement.asafarim.be",
	SmartOps:       "https://smartops.asafarim.be",
	Testora:        "https://testora.asafarim.be",
}

// AppRegistry returns the production or local table. The tables are
// values, so callers cannot mutate the shared copy.
func AppRegistry(isProduction bool) Apps {
	if isProduction {
		return productionApps
	}
	return localApps
}

// Origins lists every app base URL, used as the default CORS allow list.
func (a Apps) Origins() []string {
	all := []string{a.Web, a.Core, a.Identity, a.IdentityAPI, a.Blog, a.TaskManagement, a.SmartOps, a.Testora}
	seen := make(map[string]bool, len(all))
	out := make([]string, 0, len(all))
	for _, o := range all {
		if o != "" && !seen[o] {
			seen[o] = true
			out = append(out, o)
		}
	}
	return out
}

// SignInURL points at the identity portal login page.
func (a Apps) SignInURL(returnURL string) string {
	return PortalURL(a.Identity, "/login", returnURL)
}

// SignOutURL points at the identity portal logout page.
func (a Apps) SignOutURL(returnURL string) string {
	return PortalURL(a.Identity, "/logout", returnURL)
}

// PortalURL joins an identity portal page with an escaped returnUrl.
func PortalURL(base, path, returnURL string) string {
	u := strings.TrimRight(base, "/") + path
	if returnURL == "" {
		return u
	}
	return u + "?returnUrl=" + url.QueryEscape(returnURL)
}
