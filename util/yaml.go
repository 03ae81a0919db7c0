package util

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// GetYamlLocation describes the position of a node for error messages, e.g. "yaml line 3:8 errorPatterns"
//
// The anchor or head comment is appended to help locate nodes reused by aliases
func GetYamlLocation(node *yaml.Node) string {
	loc := fmt.Sprintf("yaml line %d:%d", node.Line, node.Column)
	if node.HeadComment != "" {
		return loc + " " + node.HeadComment
	}
	if node.Anchor != "" {
		return loc + " " + node.Anchor
	}
	return loc
}

// NewYamlError creates an error prefixed by the position of node
func NewYamlError(node *yaml.Node, message string) error {
	return fmt.Errorf("yaml line %d:%d: %s", node.Line, node.Column, message)
}

// MarshalYaml dumps a value as YAML document with 2-space indentation
func MarshalYaml(source interface{}) (string, error) {
	buf := &bytes.Buffer{}
	encoder := yaml.NewEncoder(buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(source); err != nil {
		return "", err
	}
	if err := encoder.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// UnmarshalYamlFile decodes a YAML file into output, rejecting unknown fields
func UnmarshalYamlFile(path string, output interface{}) error {
	contents, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := unmarshalYamlStrict(bytes.NewReader(contents), output); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// UnmarshalYamlString decodes YAML contents into output, rejecting unknown fields
//
// Strict checking doesn't apply inside of custom unmarshalers, which can re-encode their node and call this instead
func UnmarshalYamlString(contents string, output interface{}) error {
	return unmarshalYamlStrict(strings.NewReader(contents), output)
}

func unmarshalYamlStrict(reader io.Reader, output interface{}) error {
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)
	return decoder.Decode(output)
}
