package rbac

// Permission constants
const (
	PermCreateCampaign    = "create_campaign"
	PermReviewDeliverable = "review_deliverable"
	PermFundEscrow        = "fund_escrow"
	PermConnectStore      = "connect_store"
	PermUseAITools        = "use_ai_tools"
	PermApplyToCampaign   = "apply_to_campaign"
	PermUploadDeliverable = "upload_deliverable"
	PermSetPayoutDetails  = "set_payout_details"
	PermResolveDispute    = "resolve_dispute"
)

// RolePermissions defines what each role can do. Roles themselves live in
// models; admin inherits everything plus dispute resolution.
var RolePermissions = map[string][]string{
	"brand": {
		PermCreateCampaign, PermReviewDeliverable, PermFundEscrow,
		PermConnectStore, PermUseAITools,
	},
	"creator": {
		PermApplyToCampaign, PermUploadDeliverable, PermSetPayoutDetails,
	},
	"admin": {
		PermCreateCampaign, PermReviewDeliverable, PermFundEscrow,
		PermConnectStore, PermUseAITools,
		PermApplyToCampaign, PermUploadDeliverable, PermSetPayoutDetails,
		PermResolveDispute,
	},
}

// HasPermission checks if a role has a specific permission.
func HasPermission(role, permission string) bool {
	perms, ok := RolePermissions[role]
	if !ok {
		return false
	}
	for _, p := range perms {
		if p == permission {
			return true
		}
	}
	return false
}
