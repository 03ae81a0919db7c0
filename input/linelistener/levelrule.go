package linelistener

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
	"github.com/relex/slog-loki/util"
	"gopkg.in/yaml.v3"
)

// LevelRule assigns Level to records matching any of the glob patterns
//
// For example:
//
//	level: ERROR
//	patterns: ["*ERROR*", "*Exception*"]
type LevelRule struct {
	Level    string      `yaml:"level"`
	Patterns globPattern `yaml:"patterns"`
}

// globPattern is a list of glob expressions compiled into one matcher
type globPattern struct {
	expressions []string
	match       func(s string) bool
}

func compileGlobPattern(expressions []string) (globPattern, error) {
	if len(expressions) == 0 {
		return globPattern{}, fmt.Errorf("no pattern")
	}
	var matcher glob.Glob
	var err error
	if len(expressions) == 1 {
		matcher, err = glob.Compile(expressions[0])
	} else {
		matcher, err = glob.Compile("{" + strings.Join(expressions, ",") + "}")
	}
	if err != nil {
		return globPattern{}, err
	}
	return globPattern{
		expressions: expressions,
		match:       matcher.Match,
	}, nil
}

func (pattern *globPattern) UnmarshalYAML(value *yaml.Node) error {
	var expressions []string
	if err := value.Decode(&expressions); err != nil {
		return err
	}
	compiled, err := compileGlobPattern(expressions)
	if err != nil {
		return util.NewYamlError(value, fmt.Sprintf("invalid glob patterns %s: %s", expressions, err.Error()))
	}
	*pattern = compiled
	return nil
}

// MarshalYAML provides custom marshalling to export the original expressions
func (pattern globPattern) MarshalYAML() (interface{}, error) {
	return pattern.expressions, nil
}

// Match tests the value against all patterns
func (pattern globPattern) Match(value string) bool {
	return pattern.match != nil && pattern.match(value)
}

// levelClassifier picks the level of the first matched rule
type levelClassifier struct {
	rules        []LevelRule
	defaultLevel string
}

func (cls levelClassifier) Classify(record string) string {
	for _, rule := range cls.rules {
		if rule.Patterns.Match(record) {
			return rule.Level
		}
	}
	return cls.defaultLevel
}
