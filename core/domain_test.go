package core

import "testing"

func TestSignature_ZeroValueIsAbsent(t *testing.T) {
	var sig Signature
	if sig.Present() {
		t.Fatalf("expected zero signature to be absent")
	}
	if !SignatureSHA256("ab").Present() || !SignatureSHA1("ab").Present() {
		t.Fatalf("expected constructed signatures to be present")
	}
	if SignatureSHA1("ab").Algorithm != SignatureAlgorithmSHA1 {
		t.Fatalf("expected sha1 algorithm tag")
	}
}

func TestRecordKey_Validate(t *testing.T) {
	if err := (RecordKey{Organization: "o", Name: "r"}).Validate(); err != nil {
		t.Fatalf("expected valid key: %v", err)
	}
	if err := (RecordKey{Organization: "o"}).Validate(); err == nil {
		t.Fatalf("expected missing name to fail")
	}
	if err := (RecordKey{Name: "r"}).Validate(); err == nil {
		t.Fatalf("expected missing organization to fail")
	}
	key := StarRecord{Organization: "o", Name: "r"}.Key()
	if key.Organization != "o" || key.Name != "r" {
		t.Fatalf("unexpected record key %#v", key)
	}
}
