package plan

import (
	"encoding/json"
	"strconv"

	"github.com/beevik/etree"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/repath/pkg/errors"
)

type jsonRenderer struct{}

func (r *jsonRenderer) Render(p *Plan) (string, error) {
	data, err := json.MarshalIndent(viewOf(p), "", "  ")
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInvalidInput, "failed to encode plan as JSON")
	}
	return string(data) + "\n", nil
}

type yamlRenderer struct{}

func (r *yamlRenderer) Render(p *Plan) (string, error) {
	data, err := yaml.Marshal(viewOf(p))
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInvalidInput, "failed to encode plan as YAML")
	}
	return string(data), nil
}

type xmlRenderer struct{}

func (r *xmlRenderer) Render(p *Plan) (string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("plan")
	entries := root.CreateElement("entries")
	for _, entry := range p.Entries {
		e := entries.CreateElement("entry")
		e.CreateAttr("status", string(entry.Status))
		e.CreateElement("source").SetText(entry.Source.String())
		if entry.Status != StatusDrop {
			e.CreateElement("target").SetText(entry.Target.String())
		}
	}

	summary := root.CreateElement("summary")
	summary.CreateAttr("total", strconv.Itoa(p.Summary.Total))
	summary.CreateAttr("relocated", strconv.Itoa(p.Summary.Relocated))
	summary.CreateAttr("kept", strconv.Itoa(p.Summary.Kept))
	summary.CreateAttr("dropped", strconv.Itoa(p.Summary.Dropped))

	doc.Indent(2)
	out, err := doc.WriteToString()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInvalidInput, "failed to encode plan as XML")
	}
	return out, nil
}
