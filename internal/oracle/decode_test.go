package oracle

import "testing"

func TestDecodeClassification(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{
			name: "valid",
			raw:  `{"problem_types":["wrong-item"],"order_id":"ORD54321","product_id":"P1005","description":"received wrong color","reasoning":"customer mentions a different item"}`,
		},
		{
			name:    "empty problem types",
			raw:     `{"problem_types":[],"description":"something"}`,
			wantErr: true,
		},
		{
			name:    "blank description",
			raw:     `{"problem_types":["general"],"description":"  "}`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			raw:     `{"problem_types":`,
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := decodeClassification(tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.OrderID != "ORD54321" || got.ProductID != "P1005" {
				t.Errorf("identifiers = %q/%q, want ORD54321/P1005", got.OrderID, got.ProductID)
			}
		})
	}
}

func TestDecodePolicyChoice(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantID  string
		wantErr bool
	}{
		{
			name:   "valid",
			raw:    `{"policy_id":"wrong-item-resolution","rationale":"customer received the wrong product"}`,
			wantID: "wrong-item-resolution",
		},
		{
			name:   "ambiguous is valid",
			raw:    `{"policy_id":"","rationale":""}`,
			wantID: "",
		},
		{
			name:    "id without rationale",
			raw:     `{"policy_id":"standard-return","rationale":" "}`,
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := decodePolicyChoice(tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.PolicyID != tc.wantID {
				t.Errorf("policy id = %q, want %q", got.PolicyID, tc.wantID)
			}
		})
	}
}

func TestDecodeDecision(t *testing.T) {
	t.Run("invoke", func(t *testing.T) {
		got, err := decodeDecision(`{"action":"invoke","tool":"check_stock","args":{"product_id":"P1001"}}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Invoke == nil || got.Finish != nil {
			t.Fatalf("decision = %+v, want invoke only", got)
		}
		if got.Invoke.Tool != "check_stock" || got.Invoke.Args["product_id"] != "P1001" {
			t.Errorf("invocation = %+v", got.Invoke)
		}
	})

	t.Run("invoke with nil args", func(t *testing.T) {
		got, err := decodeDecision(`{"action":"invoke","tool":"check_stock"}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Invoke.Args == nil {
			t.Error("args should be an empty map, not nil")
		}
	})

	t.Run("finish", func(t *testing.T) {
		got, err := decodeDecision(`{"action":"finish","response":"Your replacement is on the way."}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Finish == nil || got.Invoke != nil {
			t.Fatalf("decision = %+v, want finish only", got)
		}
		if *got.Finish != "Your replacement is on the way." {
			t.Errorf("response = %q", *got.Finish)
		}
	})

	t.Run("failures", func(t *testing.T) {
		for _, raw := range []string{
			`{"action":"invoke"}`,
			`{"action":"finish","response":""}`,
			`{"action":"retry"}`,
			`{}`,
		} {
			if _, err := decodeDecision(raw); err == nil {
				t.Errorf("decodeDecision(%s): expected error, got nil", raw)
			}
		}
	})
}
