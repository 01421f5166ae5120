package hcl_adapter

import (
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// evalContext exposes `env.<NAME>` and `workdir` to attribute expressions,
// so records can be written as `gdna = "${workdir}/in/x.fa"`.
func (l *Loader) evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env":     environ(os.Environ()),
			"workdir": cty.StringVal(l.workdir),
		},
	}
}

// environ turns KEY=VALUE pairs into a cty map. Entries without a name are
// skipped; a later duplicate wins.
func environ(pairs []string) cty.Value {
	vars := make(map[string]cty.Value, len(pairs))
	for _, kv := range pairs {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		vars[name] = cty.StringVal(value)
	}
	if len(vars) == 0 {
		return cty.MapValEmpty(cty.String)
	}
	return cty.MapVal(vars)
}
