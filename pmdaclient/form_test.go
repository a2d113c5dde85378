package pmdaclient

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const searchPageHTML = `
<html><body><form action="/PmdaSearch/iyakuSearch/">
<input type="hidden" name="nccharset" value="ABCDEF" />
<input type="hidden" name="searchCnt" value="1234" />
<input type="hidden" name="totalPages" value="13" />
<input type="text" name="nameWord" value="" />
<input type="radio" name="howtoMatchRadioValue" value="1" />
<input type="radio" name="howtoMatchRadioValue" value="2" checked />
<input type="checkbox" name="tglOpFlg" checked />
<input type="checkbox" name="unchecked" />
<select name="ListRows">
  <option value="25">25</option>
  <option value="100" selected>100</option>
</select>
<select name="noSelection">
  <option value="first">first</option>
  <option value="second">second</option>
</select>
</form></body></html>`

func TestParseHiddenInputs(t *testing.T) {
	hidden := ParseHiddenInputs(searchPageHTML)

	require.Equal(t, "ABCDEF", hidden["nccharset"])
	require.Equal(t, "1234", hidden["searchCnt"])
	_, hasText := hidden["nameWord"]
	require.False(t, hasText, "text inputs are not hidden state")
}

func TestParseFormDefaults(t *testing.T) {
	form := ParseFormDefaults(searchPageHTML)

	require.Equal(t, "ABCDEF", form["nccharset"])
	require.Equal(t, "", form["nameWord"])
	require.Equal(t, "2", form["howtoMatchRadioValue"], "the checked radio wins")
	require.Equal(t, "on", form["tglOpFlg"])
	_, hasUnchecked := form["unchecked"]
	require.False(t, hasUnchecked)
	require.Equal(t, "100", form["ListRows"], "the selected option wins")
	require.Equal(t, "first", form["noSelection"], "first option is the browser default")
}

func TestParseSearchCount(t *testing.T) {
	require.Equal(t, 1234, ParseSearchCount(searchPageHTML))
	require.Equal(t, 0, ParseSearchCount("<html></html>"))
	require.Equal(t, 0, ParseSearchCount(`<input type="hidden" name="searchCnt" value="abc" />`))
}

func TestParseTotalPages(t *testing.T) {
	require.Equal(t, 13, ParseTotalPages(searchPageHTML))
	require.Equal(t, 1, ParseTotalPages("<html></html>"))
}
