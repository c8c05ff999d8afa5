// Package export converts a rendered preview document into downloadable formats.
package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"resume-builder/resume/render"
)

const (
	wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

	contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

	rootRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`
)

// DOCX renders doc into a WordprocessingML package.
func DOCX(doc render.Document) ([]byte, error) {
	documentXML := documentXMLText(doc)
	if err := validateDocumentXMLStrict(documentXML); err != nil {
		return nil, err
	}

	var output bytes.Buffer
	writer := zip.NewWriter(&output)

	parts := []struct {
		name    string
		content string
	}{
		{name: "[Content_Types].xml", content: contentTypesXML},
		{name: "_rels/.rels", content: rootRelsXML},
		{name: "word/document.xml", content: documentXML},
	}
	for _, part := range parts {
		if err := writeZipFile(writer, part.name, []byte(part.content)); err != nil {
			_ = writer.Close()
			return nil, fmt.Errorf("write %s: %w", part.name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}
	return output.Bytes(), nil
}

func writeZipFile(writer *zip.Writer, name string, content []byte) error {
	header := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	dst, err := writer.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = dst.Write(content)
	return err
}

func documentXMLText(doc render.Document) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<w:document xmlns:w="` + wordNamespace + `"><w:body>`)

	for _, section := range doc.Sections {
		switch section.Kind {
		case render.SectionHeader:
			writeHeader(&b, section.Header)
		case render.SectionSummary:
			writeRule(&b, section.Rule)
			writeParagraph(&b, themed("sectionHeading", section.TitleColor), section.Title)
			writeParagraph(&b, StyleMap["body"], section.Text)
		case render.SectionWorkExperience, render.SectionEducation:
			writeRule(&b, section.Rule)
			writeParagraph(&b, themed("sectionHeading", section.TitleColor), section.Title)
			for _, entry := range section.Entries {
				writeEntry(&b, entry)
			}
		case render.SectionSkills:
			writeRule(&b, section.Rule)
			writeParagraph(&b, themed("sectionHeading", section.TitleColor), section.Title)
			labels := make([]string, 0, len(section.Badges))
			for _, badge := range section.Badges {
				labels = append(labels, badge.Label)
			}
			writeParagraph(&b, StyleMap["body"], strings.Join(labels, " | "))
		}
	}

	b.WriteString(`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/><w:pgMar w:top="720" w:right="720" w:bottom="720" w:left="720" w:header="0" w:footer="0" w:gutter="0"/></w:sectPr>`)
	b.WriteString(`</w:body></w:document>`)
	return b.String()
}

func writeHeader(b *strings.Builder, header *render.Header) {
	if header == nil {
		return
	}
	if header.FullName != "" {
		writeParagraph(b, themed("name", header.Color), header.FullName)
	}
	if header.JobTitle != "" {
		writeParagraph(b, themed("jobTitle", header.Color), header.JobTitle)
	}
	if header.Contact != "" {
		writeParagraph(b, StyleMap["contact"], header.Contact)
	}
}

func writeEntry(b *strings.Builder, entry render.Entry) {
	b.WriteString(`<w:p><w:pPr><w:keepNext/><w:tabs><w:tab w:val="right" w:pos="10466"/></w:tabs></w:pPr>`)
	writeRun(b, themed("entryTitle", entry.Color), entry.Title)
	if entry.DateRange != "" {
		b.WriteString(`<w:r><w:tab/></w:r>`)
		writeRun(b, themed("meta", entry.Color), entry.DateRange)
	}
	b.WriteString(`</w:p>`)
	if entry.Subtitle != "" {
		writeParagraph(b, StyleMap["entrySubtitle"], entry.Subtitle)
	}
	if entry.Description != "" {
		writeParagraph(b, StyleMap["body"], entry.Description)
	}
}

func writeRule(b *strings.Builder, rule *render.Rule) {
	if rule == nil {
		return
	}
	size := rule.Weight * 6
	if size <= 0 {
		size = 6
	}
	fmt.Fprintf(b, `<w:p><w:pPr><w:pBdr><w:bottom w:val="single" w:sz="%d" w:space="1" w:color="%s"/></w:pBdr></w:pPr></w:p>`,
		size, docxColor(rule.Color, "E5E7EB"))
}

func writeParagraph(b *strings.Builder, style RunStyle, text string) {
	b.WriteString(`<w:p>`)
	writeRun(b, style, text)
	b.WriteString(`</w:p>`)
}

// writeRun emits one run; embedded newlines become w:br so line breaks survive.
func writeRun(b *strings.Builder, style RunStyle, text string) {
	b.WriteString(`<w:r>`)
	writeRunProperties(b, style)
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			b.WriteString(`<w:br/>`)
		}
		b.WriteString(`<w:t xml:space="preserve">`)
		b.WriteString(escapeText(line))
		b.WriteString(`</w:t>`)
	}
	b.WriteString(`</w:r>`)
}

func writeRunProperties(b *strings.Builder, style RunStyle) {
	if !style.Bold && !style.Italic && style.Size == 0 && style.Color == "" {
		return
	}
	b.WriteString(`<w:rPr>`)
	if style.Bold {
		b.WriteString(`<w:b/>`)
	}
	if style.Italic {
		b.WriteString(`<w:i/>`)
	}
	if style.Color != "" {
		fmt.Fprintf(b, `<w:color w:val="%s"/>`, style.Color)
	}
	if style.Size > 0 {
		fmt.Fprintf(b, `<w:sz w:val="%d"/>`, style.Size)
	}
	b.WriteString(`</w:rPr>`)
}

func escapeText(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func validateDocumentXMLStrict(xmlText string) error {
	decoder := xml.NewDecoder(strings.NewReader(xmlText))
	decoder.Strict = true
	for {
		_, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("document.xml is not well-formed: %w", err)
		}
	}
}
