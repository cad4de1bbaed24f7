package detect

import "github.com/goatminify/goatminify/internal/models"

// extensionValidator confirms that content plausibly matches the type its
// filename claims. text is the full trimmed input, sample its prefix.
type extensionValidator func(text, sample string) bool

var extensionValidators = map[models.ContentType]extensionValidator{
	models.TypeJSON: func(text, _ string) bool {
		return isStrictJSON(text)
	},
	models.TypeSVG: func(_, sample string) bool {
		return svgPattern.MatchString(sample)
	},
	models.TypeHTML: func(_, sample string) bool {
		return htmlPattern.MatchString(sample)
	},
	models.TypeXML: func(_, sample string) bool {
		return match2(xmlPattern, sample)
	},
	models.TypeCSS: func(text, sample string) bool {
		return cssRule.MatchString(text) || cssAtRule.MatchString(sample) || cssVar.MatchString(sample)
	},
	models.TypeJS: func(text, sample string) bool {
		return jsKeyword.MatchString(sample) || jsOperator.MatchString(text)
	},
	models.TypeYAML: func(_, sample string) bool {
		return yamlStart.MatchString(sample) || yamlKeyValue.MatchString(sample) || yamlListItem.MatchString(sample)
	},
	models.TypeTOML: func(_, sample string) bool {
		return tomlTable.MatchString(sample) || tomlKeyValue.MatchString(sample)
	},
	models.TypeMD: func(_, sample string) bool {
		return mdHeader.MatchString(sample) || mdList.MatchString(sample) || mdLinkImage.MatchString(sample)
	},
}

// detectFromExtension returns the hinted type when the content structurally
// agrees with it. ok is false when detection must fall through to content rules.
func (d *Detector) detectFromExtension(ext, text, sample string) (models.ContentType, bool) {
	t, known := d.table.ByExtension(ext)
	if !known {
		return models.TypeNone, false
	}
	validate, ok := extensionValidators[t]
	if !ok || !validate(text, sample) {
		return models.TypeNone, false
	}
	return t, true
}
