package report

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
	"github.com/nguyentantai21042004/meeting-digest/internal/meeting"
)

const (
	fontName  = "Times New Roman"
	fontSize  = 13
	fontColor = "000000"
)

var reBold = regexp.MustCompile(`\*\*(.+?)\*\*`)

// WriteDocx renders rec as a meeting minutes document at outputPath.
func WriteDocx(rec meeting.Record, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	addStyledRun(doc.AddParagraph(""), Title(rec), true, headingSize(1))
	if !rec.CreatedAt.IsZero() {
		addStyledRun(doc.AddParagraph(""), "Processed "+rec.CreatedAt.UTC().Format("2006-01-02 15:04 MST"), false, fontSize)
	}

	addHeading(doc, "Summary")
	for _, para := range paragraphs(rec.Summary) {
		addRichText(doc.AddParagraph(""), para)
	}

	addHeading(doc, "Key Decisions")
	if len(rec.Decisions) == 0 {
		addStyledRun(doc.AddParagraph(""), "No decisions recorded.", false, fontSize)
	}
	for _, d := range rec.Decisions {
		addRichText(doc.AddParagraph(""), "• "+d)
	}

	addHeading(doc, "Action Items")
	if len(rec.Actions) == 0 {
		addStyledRun(doc.AddParagraph(""), "No action items recorded.", false, fontSize)
	}
	for i, a := range rec.Actions {
		p := doc.AddParagraph("")
		addStyledRun(p, fmt.Sprintf("%d. %s", i+1, a.Task), true, fontSize)
		addStyledRun(p, fmt.Sprintf(" (owner: %s, deadline: %s)", a.Owner, a.Deadline), false, fontSize)
	}

	addHeading(doc, "Transcript")
	if strings.TrimSpace(rec.Transcript) == "" {
		addStyledRun(doc.AddParagraph(""), "No speech detected.", false, fontSize)
	} else {
		addStyledRun(doc.AddParagraph(""), rec.Transcript, false, fontSize)
	}

	if err := doc.SaveTo(outputPath); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

// Title is the document heading, derived from the uploaded file name.
func Title(rec meeting.Record) string {
	name := rec.Filename
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	if name == "" {
		return "Meeting Minutes"
	}
	return "Meeting Minutes: " + name
}

// paragraphs splits model output on blank lines and drops markdown rules.
func paragraphs(text string) []string {
	var out []string
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" || block == "---" {
			continue
		}
		out = append(out, strings.Join(strings.Fields(block), " "))
	}
	return out
}

func addHeading(doc *docx.RootDoc, text string) {
	addStyledRun(doc.AddParagraph(""), text, true, headingSize(2))
}

func headingSize(level int) uint64 {
	switch level {
	case 1:
		return 16
	case 2:
		return 15
	case 3:
		return 14
	default:
		return fontSize
	}
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	text = cleanMarkdownInline(text)
	run := p.AddText(text).Font(fontName).Size(size).Color(fontColor)
	if bold {
		run.Bold(true)
	}
}

// addRichText keeps **bold** spans that models like to emit.
func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			p.AddText(cleanMarkdownInline(part)).Font(fontName).Size(fontSize).Color(fontColor)
		}
		if i < len(matches) {
			p.AddText(cleanMarkdownInline(matches[i][1])).Font(fontName).Size(fontSize).Color(fontColor).Bold(true)
		}
	}
}

func cleanMarkdownInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}
