package export

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/h0ck3ystyx/recrafter/internal/analysis"
)

// CMS package directory layout.
var cmsDirs = []string{"content-types", "templates", "components", "navigation"}

// exportCMS writes a CMS migration package: one content-type definition per
// content model, one page template per cluster's dominant page type, shared
// component templates, and a navigation skeleton.
func (e *Exporter) exportCMS(report *analysis.Report, outputDir string) (string, error) {
	root := filepath.Join(outputDir, "cms")
	for _, dir := range cmsDirs {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return "", fmt.Errorf("create cms dir: %w", err)
		}
	}

	if err := e.writeContentTypes(report, filepath.Join(root, "content-types")); err != nil {
		return "", err
	}
	if err := e.writeTemplates(report, filepath.Join(root, "templates")); err != nil {
		return "", err
	}
	if err := e.writeComponents(report, filepath.Join(root, "components")); err != nil {
		return "", err
	}
	if err := e.writeNavigation(report, filepath.Join(root, "navigation")); err != nil {
		return "", err
	}
	if err := e.writeReadme(report, root); err != nil {
		return "", err
	}

	e.logger.Info("report exported", "format", FormatCMS, "path", root)
	return root, nil
}

// contentTypeXML is the content-type definition schema.
type contentTypeXML struct {
	XMLName     xml.Name   `xml:"content-type"`
	DisplayName string     `xml:"display-name"`
	Description string     `xml:"description"`
	ModelID     string     `xml:"model-id"`
	Version     int        `xml:"version"`
	Fields      []fieldXML `xml:"form>field-group>fields>field"`
}

type fieldXML struct {
	Name     string `xml:"name"`
	Type     string `xml:"type"`
	Required bool   `xml:"required"`
	Label    string `xml:"label"`
	Help     string `xml:"help,omitempty"`
}

// crafterFieldTypes maps model field types to CMS form control types.
var crafterFieldTypes = map[string]string{
	"text":              "input-text",
	"rich_text":         "rich-text",
	"number":            "input-number",
	"date":              "input-date",
	"image":             "input-image",
	"image_list":        "input-image",
	"text_list":         "input-text",
	"content_reference": "input-content",
	"metadata_group":    "input-text",
	"form_field_list":   "input-text",
	"key_value_list":    "input-text",
}

func crafterFieldType(t string) string {
	if mapped, ok := crafterFieldTypes[t]; ok {
		return mapped
	}
	return "input-text"
}

func (e *Exporter) writeContentTypes(report *analysis.Report, dir string) error {
	models := report.ContentModels
	if len(models) == 0 {
		models = []analysis.ContentModel{{
			Name:        "Page Model",
			PageType:    "general_page",
			Description: "General page content model",
			Fields: []analysis.ModelField{
				{Name: "title", Type: "text", Required: true},
				{Name: "content", Type: "rich_text"},
				{Name: "metadata", Type: "metadata_group"},
			},
		}}
	}

	for _, model := range models {
		ct := contentTypeXML{
			DisplayName: model.Name,
			Description: model.Description,
			ModelID:     model.PageType,
			Version:     1,
		}
		for _, f := range model.Fields {
			ct.Fields = append(ct.Fields, fieldXML{
				Name:     f.Name,
				Type:     crafterFieldType(f.Type),
				Required: f.Required,
				Label:    fieldLabel(f.Name),
				Help:     f.Description,
			})
		}

		data, err := xml.MarshalIndent(ct, "", "    ")
		if err != nil {
			return fmt.Errorf("marshal content type %s: %w", model.PageType, err)
		}
		data = append([]byte(xml.Header), data...)
		path := filepath.Join(dir, model.PageType+"_model.xml")
		if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write content type: %w", err)
		}
	}
	return nil
}

func fieldLabel(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// writeTemplates emits one Freemarker template per dominant page type seen
// in the clusters, plus defaults when clustering produced nothing.
func (e *Exporter) writeTemplates(report *analysis.Report, dir string) error {
	pageTypes := make(map[string]struct{})
	for _, c := range report.PageClustering.Clusters {
		pageTypes[c.DominantPageType] = struct{}{}
	}
	if len(pageTypes) == 0 {
		pageTypes["homepage"] = struct{}{}
		pageTypes["general_page"] = struct{}{}
	}

	for pt := range pageTypes {
		path := filepath.Join(dir, pt+"_template.ftl")
		if err := os.WriteFile(path, []byte(freemarkerTemplate(pt)), 0o644); err != nil {
			return fmt.Errorf("write template: %w", err)
		}
	}
	return nil
}

func freemarkerTemplate(pageType string) string {
	switch pageType {
	case "homepage":
		return `<#include "header.ftl">

<main class="homepage">
    <section class="hero">
        <h1>${contentModel.title!""}</h1>
        <div class="hero-content">${contentModel.hero_content!""}</div>
    </section>
    <section class="featured">
        <#list contentModel.featured_content![] as item>
            <article class="featured-item">${item}</article>
        </#list>
    </section>
</main>

<#include "footer.ftl">
`
	case "blog_post":
		return `<#include "header.ftl">

<main class="blog-post">
    <article>
        <h1>${contentModel.title!""}</h1>
        <p class="meta">
            <span class="author">${contentModel.author!""}</span>
            <time>${contentModel.publish_date!""}</time>
        </p>
        <div class="content">${contentModel.content!""}</div>
    </article>
</main>

<#include "footer.ftl">
`
	default:
		return `<#include "header.ftl">

<main class="` + pageType + `">
    <h1>${contentModel.title!""}</h1>
    <div class="content">${contentModel.content!""}</div>
</main>

<#include "footer.ftl">
`
	}
}

// writeComponents emits shared component templates. High-frequency
// components from the analysis get placeholder templates named after their
// category.
func (e *Exporter) writeComponents(report *analysis.Report, dir string) error {
	templates := map[string]string{
		"header.ftl": `<header class="site-header">
    <#include "navigation.ftl">
</header>
`,
		"footer.ftl": `<footer class="site-footer">
    <p>${siteConfig.footerText!""}</p>
</footer>
`,
		"navigation.ftl": `<nav class="site-nav">
    <#list navigation.items![] as item>
        <a href="${item.url}">${item.label}</a>
    </#list>
</nav>
`,
	}

	seen := make(map[string]struct{})
	for _, usage := range report.ComponentAnalysis.FrequencyGroups[analysis.PriorityHigh] {
		name := usage.Category + ".ftl"
		if _, ok := templates[name]; ok {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		templates[name] = fmt.Sprintf(`<#-- %s component (%s), seen %d times site-wide -->
<div class="%s">
    ${content!""}
</div>
`, usage.Category, usage.Tag, usage.Frequency, usage.Category)
	}

	for name, body := range templates {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			return fmt.Errorf("write component: %w", err)
		}
	}
	return nil
}

// navigationItem is one entry of the exported navigation skeleton.
type navigationItem struct {
	Label    string `json:"label"`
	URL      string `json:"url"`
	PageType string `json:"type"`
}

// writeNavigation derives a navigation skeleton from the page-type
// distribution.
func (e *Exporter) writeNavigation(report *analysis.Report, dir string) error {
	items := []navigationItem{{Label: "Home", URL: "/", PageType: "homepage"}}
	if report.SiteStructure.PageTypeDistribution["blog_post"] > 0 {
		items = append(items, navigationItem{Label: "Blog", URL: "/blog", PageType: "blog_post"})
	}
	if report.SiteStructure.PageTypeDistribution["product_page"] > 0 {
		items = append(items, navigationItem{Label: "Products", URL: "/products", PageType: "product_page"})
	}
	if report.SiteStructure.PageTypeDistribution["information_page"] > 0 {
		items = append(items, navigationItem{Label: "About", URL: "/about", PageType: "information_page"})
	}

	data, err := json.MarshalIndent(map[string]any{"items": items}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal navigation: %w", err)
	}
	path := filepath.Join(dir, "navigation.json")
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write navigation: %w", err)
	}
	return nil
}

func (e *Exporter) writeReadme(report *analysis.Report, dir string) error {
	var b strings.Builder
	b.WriteString("# CMS Migration Package\n\n")
	fmt.Fprintf(&b, "Generated from %s (%d pages).\n\n", report.BaseURL, report.TotalPages)
	b.WriteString("Contents:\n\n")
	b.WriteString("- `content-types/` - content model definitions\n")
	b.WriteString("- `templates/` - page templates derived from structural clusters\n")
	b.WriteString("- `components/` - shared component templates\n")
	b.WriteString("- `navigation/` - navigation skeleton\n\n")
	if len(report.Recommendations) > 0 {
		b.WriteString("## Migration recommendations\n\n")
		for _, rec := range report.Recommendations {
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", rec.Title, rec.Priority, rec.Description)
		}
	}
	return os.WriteFile(filepath.Join(dir, "README.md"), []byte(b.String()), 0o644)
}
