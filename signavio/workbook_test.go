package signavio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractWorkbook(t *testing.T) {
	dir := t.TempDir()
	csvData := "Model ID,Name,Model JSON\n" +
		"m-1,Order handling,\"{\"\"resourceId\"\": \"\"a\"\", \"\"childShapes\"\": []}\"\n" +
		"m-2,,\"{\"\"resourceId\"\": \"\"b\"\", \"\"childShapes\"\": []}\"\n" +
		"m-3,Order handling,\"{\"\"resourceId\"\": \"\"c\"\", \"\"childShapes\"\": []}\"\n" +
		"m-4,Broken,{oops\n" +
		"m-5,Empty,\n"

	res, err := ExtractWorkbook(strings.NewReader(csvData), dir, 0)
	assert.NoError(t, err)
	assert.Equal(t, 3, res.Written)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, res.Invalid)
	assert.Equal(t, []string{"Order_handling.json", "m-2.json", "Order_handling_1.json"}, res.Files)

	data, err := os.ReadFile(filepath.Join(dir, "Order_handling.json"))
	assert.NoError(t, err)
	assert.Contains(t, string(data), `"resourceId": "a"`)

	data, err = os.ReadFile(filepath.Join(dir, "Order_handling_1.json"))
	assert.NoError(t, err)
	assert.Contains(t, string(data), `"resourceId": "c"`)
}

func TestExtractWorkbookSemicolon(t *testing.T) {
	dir := t.TempDir()
	csvData := "Model ID;Name;Model JSON\n" +
		"m-1;First;{\"childShapes\": []}\n"

	res, err := ExtractWorkbook(strings.NewReader(csvData), dir, ';')
	assert.NoError(t, err)
	assert.Equal(t, 1, res.Written)
	assert.Equal(t, []string{"First.json"}, res.Files)
}

func TestExtractWorkbookMissingColumn(t *testing.T) {
	_, err := ExtractWorkbook(strings.NewReader("A,B\n1,2\n"), t.TempDir(), 0)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Model JSON")
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "Order_handling", SanitizeName("Order handling"))
	assert.Equal(t, "a_b_c.json", SanitizeName(`a/b\c.json`))
	assert.Equal(t, "model", SanitizeName("..."))
	assert.Equal(t, "model", SanitizeName(""))
}

func TestUniqueName(t *testing.T) {
	seen := map[string]int{}
	assert.Equal(t, "report", uniqueName(seen, "report"))
	assert.Equal(t, "report_1", uniqueName(seen, "report"))
	assert.Equal(t, "report_2", uniqueName(seen, "report"))
	assert.Equal(t, "other", uniqueName(seen, "other"))
}
