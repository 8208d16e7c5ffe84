package settings

import (
	"fmt"
	"sort"

	"github.com/benjaminschreck/go-folio/pkg/folio"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// hclFile mirrors the top level of an HCL settings file:
//
//	global {
//	  SITE_TITLE = "Notes"
//	}
//	settings {
//	  posts_per_page = 5
//	}
//	posts = ["first", "second"]
type hclFile struct {
	Global      *hclSection `hcl:"global,block"`
	Environment *hclSection `hcl:"environment,block"`
	Settings    *hclSection `hcl:"settings,block"`

	Posts     []string `hcl:"posts,optional"`
	Pages     []string `hcl:"pages,optional"`
	Copy      []string `hcl:"copy,optional"`
	CopyFiles []string `hcl:"copy_files,optional"`
	Tags      []string `hcl:"tags,optional"`
}

type hclSection struct {
	Attributes hcl.Attributes `hcl:",remain"`
}

func decodeHCL(src []byte, name string) (*document, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, name)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL settings: %s", diags.Error())
	}

	var raw hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL settings: %s", diags.Error())
	}

	doc := newDocument()
	sections := map[string]*hclSection{
		"global":      raw.Global,
		"environment": raw.Environment,
		"settings":    raw.Settings,
	}
	for sectionName, section := range sections {
		if section == nil {
			continue
		}
		vars, err := sectionVariables(section.Attributes)
		if err != nil {
			return nil, fmt.Errorf("%s section: %w", sectionName, err)
		}
		doc.sections[sectionName] = vars
	}

	lists := map[string][]string{
		"posts":      raw.Posts,
		"pages":      raw.Pages,
		"copy":       raw.Copy,
		"copy_files": raw.CopyFiles,
		"tags":       raw.Tags,
	}
	for listName, list := range lists {
		if list != nil {
			doc.lists[listName] = list
		}
	}
	return doc, nil
}

// sectionVariables evaluates every attribute to a string, keeping the order
// in which they appear in the file.
func sectionVariables(attrs hcl.Attributes) (*folio.Variables, error) {
	ordered := make([]*hcl.Attribute, 0, len(attrs))
	for _, attr := range attrs {
		ordered = append(ordered, attr)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Range.Start.Byte < ordered[j].Range.Start.Byte
	})

	vars := folio.NewVariables()
	for _, attr := range ordered {
		value, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("%s: %s", attr.Name, diags.Error())
		}
		str, err := ctyString(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", attr.Name, err)
		}
		vars.Set(attr.Name, str)
	}
	return vars, nil
}

func ctyString(value cty.Value) (string, error) {
	if value.IsNull() {
		return "", nil
	}
	converted, err := convert.Convert(value, cty.String)
	if err != nil {
		return "", fmt.Errorf("value of type %s cannot be used as a string", value.Type().FriendlyName())
	}
	if !converted.IsKnown() {
		return "", fmt.Errorf("value is not known")
	}
	return converted.AsString(), nil
}
