package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLabel(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Label
		wantOK bool
	}{
		{name: "exact fraud", input: "fraud", want: LabelFraud, wantOK: true},
		{name: "uppercase with period", input: "FRAUD.", want: LabelFraud, wantOK: true},
		{name: "exact not fraud", input: "Not Fraud", want: LabelNotFraud, wantOK: true},
		{name: "exact mediate", input: "mediate", want: LabelMediate, wantOK: true},
		{name: "not fraud in sentence", input: "this is not a fraud message", want: LabelNotFraud, wantOK: true},
		{name: "not before fraud wins over fraud", input: "it's not fraud", want: LabelNotFraud, wantOK: true},
		{name: "mediate in sentence", input: "please mediate", want: LabelMediate, wantOK: true},
		{name: "scam maps to fraud", input: "looks like a scam", want: LabelFraud, wantOK: true},
		{name: "spam maps to fraud", input: "total SPAM", want: LabelFraud, wantOK: true},
		{name: "unrecognized", input: "hello", want: "", wantOK: false},
		{name: "empty", input: "", want: "", wantOK: false},
		{name: "whitespace only", input: "   ", want: "", wantOK: false},
		{name: "punctuation stripped", input: "fraud.", want: LabelFraud, wantOK: true},
		{name: "apostrophe stripped", input: "'mediate'", want: LabelMediate, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLabel(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLabelIsSet(t *testing.T) {
	assert.True(t, LabelFraud.IsSet())
	assert.True(t, LabelNotFraud.IsSet())
	assert.True(t, LabelMediate.IsSet())
	assert.False(t, Label("").IsSet())
	assert.False(t, Label("Unknown").IsSet())
}

func TestParseSource(t *testing.T) {
	for _, valid := range []string{"app", "website", "database", "terminal"} {
		src, err := ParseSource(valid)
		assert.NoError(t, err)
		assert.Equal(t, Source(valid), src)
	}

	_, err := ParseSource("carrier-pigeon")
	assert.Error(t, err)
}

func TestDecisionMeta(t *testing.T) {
	d := Decision{
		Label:        LabelNotFraud,
		Origin:       OriginOnline,
		OfflineLabel: LabelMediate,
		AfterHours:   true,
	}

	meta := d.Meta()
	assert.Equal(t, "online", meta["origin"])
	assert.Equal(t, true, meta["after_hours"])
	assert.Equal(t, "Mediate", meta["offline_label"])
	assert.Nil(t, meta["online_label"])
}
