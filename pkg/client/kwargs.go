package client

import "time"

// DefaultContext is injected as kwargs["context"] when a call carries none.
// It pins locale and timezone and suppresses mail/chatter side effects.
var DefaultContext = map[string]any{
	"lang":                "en_US",
	"tz":                  "UTC",
	"tracking_disable":    true,
	"mail_create_nolog":   true,
	"mail_notrack":        true,
	"mail_notify_noemail": true,
}

// mutatingMethods receive a timeout hint when the caller sets none.
var mutatingMethods = map[string]bool{
	"create": true,
	"write":  true,
	"unlink": true,
	"copy":   true,
}

// IsMutating reports whether method writes records on the server.
func IsMutating(method string) bool { return mutatingMethods[method] }

// prepareKwargs returns a copy of kwargs with the default context and, for
// mutating methods, the timeout hint (whole seconds) filled in. The caller's
// map is never modified.
func prepareKwargs(method string, kwargs map[string]any, mutationTimeout time.Duration) map[string]any {
	out := make(map[string]any, len(kwargs)+2)
	for k, v := range kwargs {
		out[k] = v
	}
	if _, ok := out["context"]; !ok {
		ctx := make(map[string]any, len(DefaultContext))
		for k, v := range DefaultContext {
			ctx[k] = v
		}
		out["context"] = ctx
	}
	if IsMutating(method) && mutationTimeout > 0 {
		if _, ok := out["timeout"]; !ok {
			out["timeout"] = int(mutationTimeout / time.Second)
		}
	}
	return out
}
