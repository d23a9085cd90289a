package render

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-fieldprop/pkg/descriptor"
	"github.com/goliatone/go-fieldprop/pkg/render/template/gotemplate"
)

// Context builds the template context for a field. Vars are visible to the
// template too, but field attributes win on conflicting keys.
func Context(f descriptor.Field, vars map[string]string) map[string]any {
	ctx := make(map[string]any, len(vars)+32)
	for key, value := range vars {
		ctx[key] = value
	}

	label := f.DisplayLabel()
	hasMin := f.Range != nil && f.Range.Min != nil
	hasMax := f.Range != nil && f.Range.Max != nil
	minText, maxText := "", ""
	if hasMin {
		minText = descriptor.FormatNumber(*f.Range.Min)
	}
	if hasMax {
		maxText = descriptor.FormatNumber(*f.Range.Max)
	}

	record := f.Record
	if record == "" {
		record = vars["record"]
	}

	ctx["name"] = f.Name
	ctx["record"] = record
	ctx["kind"] = string(f.Kind)
	ctx["label"] = label
	ctx["comment"] = f.Comment
	ctx["placeholder"] = f.Placeholder
	ctx["enumValues"] = append([]string(nil), f.EnumValues...)
	ctx["nullable"] = f.IsNullable()
	ctx["allowNull"] = strconv.FormatBool(f.IsNullable())
	ctx["hasDefault"] = f.HasDefault()
	ctx["defaultLiteral"] = DefaultLiteral(f)
	ctx["commentLiteral"] = gotemplate.QuoteJS(f.Comment)
	ctx["tsType"] = TSType(f)
	ctx["sequelizeType"] = SequelizeType(f)
	ctx["zodType"] = ZodType(f)
	ctx["precision"] = strconv.Itoa(f.Precision)
	ctx["scale"] = strconv.Itoa(f.Scale)
	ctx["hasRange"] = hasMin || hasMax
	ctx["hasMin"] = hasMin
	ctx["hasMax"] = hasMax
	ctx["min"] = minText
	ctx["max"] = maxText

	control := ControlFor(f.Kind)
	ctx["control"] = string(control)
	ctx["options"] = options(f)

	labelText := sanitizeText(label)
	if hasMin && hasMax {
		labelText += " (" + minText + "-" + maxText + ")"
	}
	ctx["labelText"] = labelText

	checkbox := f.Comment
	if checkbox == "" {
		checkbox = label
	}
	ctx["checkboxText"] = sanitizeText(checkbox)

	placeholder := f.Placeholder
	if placeholder == "" && control == ControlNumber && hasMin && hasMax {
		placeholder = minText + "-" + maxText
	}
	ctx["placeholderText"] = sanitizeAttr(placeholder)
	ctx["selectPrompt"] = sanitizeText("Select " + strings.ToLower(lastWord(stripMarkup(label))))
	return ctx
}

func options(f descriptor.Field) []map[string]any {
	out := make([]map[string]any, 0, len(f.EnumValues))
	for _, value := range f.EnumValues {
		out = append(out, map[string]any{
			"value": sanitizeAttr(value),
			"label": sanitizeText(descriptor.DefaultLabeler(value)),
		})
	}
	return out
}

func lastWord(s string) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}
	return words[len(words)-1]
}
