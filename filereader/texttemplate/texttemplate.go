package texttemplate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig"
)

func Parse(name string, raw string, funcs template.FuncMap) (*template.Template, error) {
	funcs2 := template.FuncMap{
		"checkSizeLessThan": func(size int, content string) (string, error) {
			if len(content) >= size {
				return "", fmt.Errorf("Content length exceeds maximum size %d", size)
			}
			return content, nil
		},
		"toJSON": func(v interface{}) (string, error) {
			data, err := json.Marshal(v)
			return string(data), err
		},
	}

	return template.New(name).Option("missingkey=error").Funcs(sprig.HermeticTxtFuncMap()).Funcs(funcs).Funcs(funcs2).Parse(raw)
}

// GetString parses raw as a template and executes it against data.
func GetString(name string, raw string, data interface{}) (string, error) {
	tmpl, err := Parse(name, raw, nil)
	if err != nil {
		return "", err
	}

	var buff bytes.Buffer
	if err := tmpl.Execute(&buff, data); err != nil {
		return "", err
	}
	return buff.String(), nil
}
