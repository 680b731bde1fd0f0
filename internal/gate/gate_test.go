package gate

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"hrportal/internal/identity/models"
)

type GateSuite struct {
	suite.Suite
}

func TestGateSuite(t *testing.T) {
	suite.Run(t, new(GateSuite))
}

func active(role models.Role) *Principal {
	return &Principal{
		Subject:         "subject-1",
		Role:            role,
		Status:          models.StatusApproved,
		ProfileComplete: true,
	}
}

func pending(role models.Role) *Principal {
	return &Principal{Subject: "subject-1", Role: role, Status: models.StatusPending}
}

func onboarding(role models.Role) *Principal {
	return &Principal{Subject: "subject-1", Role: role, Status: models.StatusApproved}
}

func (s *GateSuite) TestUnauthenticated() {
	s.Run("public paths are open", func() {
		for _, path := range []string{"/", "/login", "/register"} {
			d := Decide(path, nil)
			s.True(d.Allow, "path %s", path)
		}
	})

	s.Run("everything else redirects to login", func() {
		for _, path := range []string{
			"/dashboard", "/manager", "/admin", "/admin/users",
			"/pending-approval", "/profile-setup", "/profile", "/nonsense",
		} {
			d := Decide(path, nil)
			s.False(d.Allow, "path %s", path)
			s.Equal(PathLogin, d.Target, "path %s", path)
		}
	})
}

func (s *GateSuite) TestPendingTrap() {
	s.Run("pending principal is held on the waiting page", func() {
		for _, path := range []string{"/", "/login", "/dashboard", "/admin", "/profile-setup", "/anything"} {
			d := Decide(path, pending(models.RoleUser))
			s.False(d.Allow, "path %s", path)
			s.Equal(PathPendingApproval, d.Target, "path %s", path)
		}
	})

	s.Run("the waiting page itself is allowed", func() {
		d := Decide(PathPendingApproval, pending(models.RoleUser))
		s.True(d.Allow)
	})

	s.Run("rejected principals are trapped the same way", func() {
		p := &Principal{Subject: "s", Role: models.RoleUser, Status: models.StatusRejected}
		d := Decide("/dashboard", p)
		s.Equal(PathPendingApproval, d.Target)
	})

	s.Run("approval gating beats role gating", func() {
		// An unapproved admin goes to the pending page, never to /admin.
		d := Decide(PathAdminHome, pending(models.RoleAdmin))
		s.False(d.Allow)
		s.Equal(PathPendingApproval, d.Target)
	})
}

func (s *GateSuite) TestOnboardingTrap() {
	s.Run("incomplete profile is held on profile setup", func() {
		for _, path := range []string{"/", "/dashboard", "/admin", "/pending-approval", "/profile"} {
			d := Decide(path, onboarding(models.RoleUser))
			s.False(d.Allow, "path %s", path)
			s.Equal(PathProfileSetup, d.Target, "path %s", path)
		}
	})

	s.Run("the profile setup page itself is allowed", func() {
		d := Decide(PathProfileSetup, onboarding(models.RoleUser))
		s.True(d.Allow)
	})
}

func (s *GateSuite) TestNoBacksliding() {
	preOnboarding := []string{"/", "/login", "/register", "/pending-approval", "/profile-setup"}

	for _, tc := range []struct {
		role models.Role
		home string
	}{
		{models.RoleUser, PathDashboard},
		{models.RoleManager, PathManagerHome},
		{models.RoleAdmin, PathAdminHome},
	} {
		for _, path := range preOnboarding {
			d := Decide(path, active(tc.role))
			s.False(d.Allow, "role %s path %s", tc.role, path)
			s.Equal(tc.home, d.Target, "role %s path %s", tc.role, path)
		}
	}
}

func (s *GateSuite) TestRoleIsolation() {
	s.Run("user cannot reach manager or admin areas", func() {
		for _, path := range []string{"/manager", "/manager/leave-requests", "/admin", "/admin/users"} {
			d := Decide(path, active(models.RoleUser))
			s.False(d.Allow, "path %s", path)
			s.Equal(PathDashboard, d.Target, "path %s", path)
		}
	})

	s.Run("manager cannot reach admin areas", func() {
		for _, path := range []string{"/admin", "/admin/users"} {
			d := Decide(path, active(models.RoleManager))
			s.False(d.Allow, "path %s", path)
			s.Equal(PathManagerHome, d.Target, "path %s", path)
		}
	})

	s.Run("manager reaches manager and user areas", func() {
		for _, path := range []string{"/manager/leave-requests", "/user/leaves"} {
			d := Decide(path, active(models.RoleManager))
			s.True(d.Allow, "path %s", path)
		}
	})

	s.Run("admin reaches every scoped area", func() {
		for _, path := range []string{"/admin/users", "/manager/leave-requests", "/user/leaves", "/dashboard/leaves"} {
			d := Decide(path, active(models.RoleAdmin))
			s.True(d.Allow, "path %s", path)
		}
	})
}

func (s *GateSuite) TestGenericDashboard() {
	s.Run("users land on the dashboard", func() {
		d := Decide(PathDashboard, active(models.RoleUser))
		s.True(d.Allow)
	})

	s.Run("managers and admins are sent to their own home", func() {
		d := Decide(PathDashboard, active(models.RoleManager))
		s.Equal(PathManagerHome, d.Target)

		d = Decide(PathDashboard, active(models.RoleAdmin))
		s.Equal(PathAdminHome, d.Target)
	})

	s.Run("role homes are open to their own role", func() {
		s.True(Decide(PathManagerHome, active(models.RoleManager)).Allow)
		s.True(Decide(PathAdminHome, active(models.RoleAdmin)).Allow)
	})

	s.Run("user cannot reach higher role homes", func() {
		d := Decide(PathManagerHome, active(models.RoleUser))
		s.Equal(PathDashboard, d.Target)
	})
}

func (s *GateSuite) TestNeutralAndUnknownPaths() {
	s.Run("neutral pages are open to any onboarded principal", func() {
		for _, role := range []models.Role{models.RoleUser, models.RoleManager, models.RoleAdmin} {
			s.True(Decide("/profile", active(role)).Allow, "role %s", role)
			s.True(Decide("/leave-application", active(role)).Allow, "role %s", role)
		}
	})

	s.Run("unknown paths count as the principal's own area", func() {
		s.True(Decide("/some/new/page", active(models.RoleUser)).Allow)
	})

	s.Run("unknown paths stay closed for everyone else", func() {
		s.Equal(PathLogin, Decide("/some/new/page", nil).Target)
		s.Equal(PathPendingApproval, Decide("/some/new/page", pending(models.RoleUser)).Target)
		s.Equal(PathProfileSetup, Decide("/some/new/page", onboarding(models.RoleUser)).Target)
	})
}

// TestJourneys walks the portal's navigation flows end to end through the
// decision function alone.
func (s *GateSuite) TestJourneys() {
	for _, tc := range []struct {
		name   string
		path   string
		p      *Principal
		allow  bool
		target string
	}{
		{"anonymous visits admin users", "/admin/users", nil, false, PathLogin},
		{"pending account visits dashboard", "/dashboard", pending(models.RoleUser), false, PathPendingApproval},
		{"approved account completes onboarding", "/profile-setup", onboarding(models.RoleUser), true, ""},
		{"onboarded manager revisits login", "/login", active(models.RoleManager), false, PathManagerHome},
		{"user probes a manager page", "/manager/my-leaves", active(models.RoleUser), false, PathDashboard},
	} {
		s.Run(tc.name, func() {
			d := Decide(tc.path, tc.p)
			s.Equal(tc.allow, d.Allow)
			s.Equal(tc.target, d.Target)
		})
	}
}
