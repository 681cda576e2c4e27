package natsadapter

import "testing"

func TestContactSubject(t *testing.T) {
	if got := ContactSubject("ecologia"); got != "recolecta.contact.ecologia" {
		t.Errorf("unexpected subject %q", got)
	}
}
