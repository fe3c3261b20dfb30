package rbac

import "testing"

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role       string
		permission string
		expected   bool
	}{
		{"brand", PermCreateCampaign, true},
		{"brand", PermFundEscrow, true},
		{"brand", PermApplyToCampaign, false},
		{"brand", PermSetPayoutDetails, false},
		{"creator", PermApplyToCampaign, true},
		{"creator", PermSetPayoutDetails, true},
		{"creator", PermCreateCampaign, false},
		{"creator", PermResolveDispute, false},
		{"admin", PermResolveDispute, true},
		{"admin", PermCreateCampaign, true},
		{"admin", PermUploadDeliverable, true},
		{"unknown", PermCreateCampaign, false},
		{"", PermCreateCampaign, false},
	}

	for _, tt := range tests {
		t.Run(tt.role+"/"+tt.permission, func(t *testing.T) {
			if got := HasPermission(tt.role, tt.permission); got != tt.expected {
				t.Errorf("HasPermission(%q, %q) = %v, want %v", tt.role, tt.permission, got, tt.expected)
			}
		})
	}
}

func TestOnlyAdminResolvesDisputes(t *testing.T) {
	for role := range RolePermissions {
		if role == "admin" {
			continue
		}
		if HasPermission(role, PermResolveDispute) {
			t.Errorf("role %q must not resolve disputes", role)
		}
	}
}
