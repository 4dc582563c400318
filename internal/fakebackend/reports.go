package fakebackend

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

func (s *Server) procesare(c *gin.Context) {
	c.JSON(http.StatusOK, s.Store.process())
}

func (s *Server) rezultate(c *gin.Context) {
	s.Store.mu.Lock()
	defer s.Store.mu.Unlock()
	c.JSON(http.StatusOK, s.Store.results(dateRange{}))
}

func parseRange(c *gin.Context) (dateRange, bool) {
	var r dateRange
	for _, p := range []struct {
		key string
		dst *time.Time
	}{{"start", &r.start}, {"end", &r.end}} {
		raw := strings.TrimSpace(c.Query(p.key))
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			fail(c, http.StatusBadRequest, "Data invalida: "+raw)
			return dateRange{}, false
		}
		*p.dst = t
	}
	return r, true
}

func (s *Server) raportInscrieri(c *gin.Context) {
	r, ok := parseRange(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Store.raportInscrieri(r))
}

func (s *Server) raportFacultati(c *gin.Context) {
	r, ok := parseRange(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Store.raportFacultati(r))
}

func (s *Server) raportInscrieriCSV(c *gin.Context) {
	r, ok := parseRange(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"program_id", "program", "facultate", "inscrisi"})
	for _, row := range s.Store.raportInscrieri(r) {
		_ = w.Write([]string{strconv.FormatInt(row.ProgramID, 10), row.ProgramNume, row.FacultateNume, strconv.Itoa(row.Inscrisi)})
	}
	w.Flush()
	c.Header("Content-Disposition", `attachment; filename="raport-inscrieri-program.csv"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// raportInscrieriPDF renders a one-page text PDF with a fixed-width table.
func (s *Server) raportInscrieriPDF(c *gin.Context) {
	r, ok := parseRange(c)
	if !ok {
		return
	}
	lines := []string{"Raport inscrieri pe program", "Program ID | Program | Facultate | Inscrisi"}
	for _, row := range s.Store.raportInscrieri(r) {
		lines = append(lines, fmt.Sprintf("%-10d | %-28s | %-24s | %d", row.ProgramID, row.ProgramNume, row.FacultateNume, row.Inscrisi))
	}
	c.Header("Content-Disposition", `attachment; filename="raport-inscrieri-program.pdf"`)
	c.Data(http.StatusOK, "application/pdf", textPDF(lines))
}

func textPDF(lines []string) []byte {
	var content bytes.Buffer
	content.WriteString("BT /F1 11 Tf 48 794 Td 16 TL\n")
	for _, l := range lines {
		l = strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`).Replace(l)
		fmt.Fprintf(&content, "(%s) Tj T*\n", l)
	}
	content.WriteString("ET")

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", content.Len(), content.String()),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Courier >>",
	}
	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = out.Len()
		fmt.Fprintf(&out, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := out.Len()
	fmt.Fprintf(&out, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&out, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&out, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return out.Bytes()
}
