package authz

import (
	"testing"

	"github.com/civiclens/civic-lens-backend/internal/models"
)

func TestAuthorize(t *testing.T) {
	citizen := Claims{
		Role:     RoleUser,
		Username: "ravi",
		Pincode:  "560001",
	}
	potholeDept := Claims{
		Role:       RoleDepartment,
		Department: models.CategoryPotholes,
		Pincode:    "560001",
	}

	tests := []struct {
		name       string
		claims     Claims
		action     Action
		res        Resource
		want       bool
		wantReason Reason
	}{
		{
			name:   "citizen creates complaint",
			claims: citizen,
			action: ActionCreateComplaint,
			want:   true,
		},
		{
			name:       "department cannot create complaint",
			claims:     potholeDept,
			action:     ActionCreateComplaint,
			want:       false,
			wantReason: ReasonWrongRole,
		},
		{
			name:   "citizen votes",
			claims: citizen,
			action: ActionVote,
			want:   true,
		},
		{
			name:       "department cannot vote",
			claims:     potholeDept,
			action:     ActionVote,
			want:       false,
			wantReason: ReasonWrongRole,
		},
		{
			name:   "citizen comments",
			claims: citizen,
			action: ActionComment,
			want:   true,
		},
		{
			name:       "department cannot comment",
			claims:     potholeDept,
			action:     ActionComment,
			want:       false,
			wantReason: ReasonWrongRole,
		},
		{
			name:   "citizen reads comments",
			claims: citizen,
			action: ActionReadComments,
			want:   true,
		},
		{
			name:   "department reads comments",
			claims: potholeDept,
			action: ActionReadComments,
			want:   true,
		},
		{
			name:   "citizen lists own area",
			claims: citizen,
			action: ActionListOwnArea,
			want:   true,
		},
		{
			name:       "department cannot list citizen feed",
			claims:     potholeDept,
			action:     ActionListOwnArea,
			want:       false,
			wantReason: ReasonWrongRole,
		},
		{
			name:   "department lists jurisdiction",
			claims: potholeDept,
			action: ActionListJurisdiction,
			want:   true,
		},
		{
			name:       "citizen cannot list jurisdiction",
			claims:     citizen,
			action:     ActionListJurisdiction,
			want:       false,
			wantReason: ReasonWrongRole,
		},
		{
			name:   "department resolves in jurisdiction",
			claims: potholeDept,
			action: ActionResolve,
			res:    Resource{Category: models.CategoryPotholes, Pincode: "560001"},
			want:   true,
		},
		{
			name:       "department cannot resolve other category",
			claims:     potholeDept,
			action:     ActionResolve,
			res:        Resource{Category: models.CategoryGarbages, Pincode: "560001"},
			want:       false,
			wantReason: ReasonOutOfJurisdiction,
		},
		{
			name:       "department cannot resolve other pincode",
			claims:     potholeDept,
			action:     ActionResolve,
			res:        Resource{Category: models.CategoryPotholes, Pincode: "110001"},
			want:       false,
			wantReason: ReasonOutOfJurisdiction,
		},
		{
			name:       "citizen cannot resolve",
			claims:     citizen,
			action:     ActionResolve,
			res:        Resource{Category: models.CategoryPotholes, Pincode: "560001"},
			want:       false,
			wantReason: ReasonWrongRole,
		},
		{
			name:   "citizen reads own profile",
			claims: citizen,
			action: ActionReadProfile,
			want:   true,
		},
		{
			name:   "department reads own profile",
			claims: potholeDept,
			action: ActionReadProfile,
			want:   true,
		},
		{
			name:       "anonymous cannot read profile",
			claims:     Claims{},
			action:     ActionReadProfile,
			want:       false,
			wantReason: ReasonWrongRole,
		},
		{
			name:   "citizen updates own profile",
			claims: citizen,
			action: ActionUpdateProfile,
			res:    Resource{OwnerUsername: "ravi"},
			want:   true,
		},
		{
			name:       "citizen cannot update another profile",
			claims:     citizen,
			action:     ActionUpdateProfile,
			res:        Resource{OwnerUsername: "asha"},
			want:       false,
			wantReason: ReasonNotOwner,
		},
		{
			name:       "unknown action denied",
			claims:     citizen,
			action:     Action("shutdown"),
			want:       false,
			wantReason: ReasonWrongRole,
		},
		{
			name:       "empty role denied",
			claims:     Claims{},
			action:     ActionVote,
			want:       false,
			wantReason: ReasonWrongRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Authorize(tt.claims, tt.action, tt.res)
			if got.Allowed != tt.want {
				t.Fatalf("Authorize() allowed = %v, want %v", got.Allowed, tt.want)
			}
			if !tt.want && got.Reason != tt.wantReason {
				t.Errorf("Authorize() reason = %q, want %q", got.Reason, tt.wantReason)
			}
		})
	}
}
