// Package gate implements the request gating decision: given the requested
// path and the authenticated principal (or absence of one), decide whether the
// request proceeds or where it redirects. Decide is a pure function — no store
// access, no side effects — so it runs on every request at in-memory cost.
package gate

import "hrportal/internal/identity/models"

// Principal carries the decision-relevant attributes of an authenticated
// identity, as snapshotted in the session claims. A nil *Principal means the
// request is unauthenticated.
type Principal struct {
	Subject         string
	Role            models.Role
	Status          models.Status
	ProfileComplete bool
}

// Decision is the gate's verdict for one request.
type Decision struct {
	Allow  bool
	Target string
}

func allow() Decision {
	return Decision{Allow: true}
}

func redirect(target string) Decision {
	return Decision{Target: target}
}

// state is the tagged onboarding state derived from a principal snapshot.
// Exactly one state applies to any (possibly absent) principal.
type state int

const (
	stateUnauthenticated state = iota
	stateUnapproved
	stateOnboarding
	stateActive
)

func stateOf(p *Principal) state {
	switch {
	case p == nil:
		return stateUnauthenticated
	case p.Status != models.StatusApproved:
		return stateUnapproved
	case !p.ProfileComplete:
		return stateOnboarding
	default:
		return stateActive
	}
}

// Decide produces the gate verdict for a request path and principal.
//
// Rule order, first match wins:
//  1. unauthenticated principals see only public paths
//  2. unapproved principals are held on the pending-approval page
//  3. approved principals without a complete profile are held on profile-setup
//  4. fully onboarded principals never see pre-onboarding pages, may not enter
//     scoped areas above their role, and non-user roles never land on the
//     generic dashboard
//
// Approval-state rules always run before role rules: an unapproved admin goes
// to the pending page, not to /admin.
func Decide(path string, p *Principal) Decision {
	info := Classify(path)

	switch stateOf(p) {
	case stateUnauthenticated:
		if info.Class == ClassPublic {
			return allow()
		}
		return redirect(PathLogin)

	case stateUnapproved:
		if info.Class == ClassPendingApproval {
			return allow()
		}
		return redirect(PathPendingApproval)

	case stateOnboarding:
		if info.Class == ClassProfileSetup {
			return allow()
		}
		return redirect(PathProfileSetup)

	default: // stateActive
		return decideActive(info, p.Role)
	}
}

func decideActive(info PathInfo, role models.Role) Decision {
	home := RoleHome(role)

	switch info.Class {
	case ClassPublic, ClassPendingApproval, ClassProfileSetup:
		// No backsliding into pre-onboarding pages.
		return redirect(home)

	case ClassRoleHome:
		// The generic dashboard belongs to plain users; managers and admins
		// land on their specific home instead.
		if info.Scope == models.RoleUser && role != models.RoleUser {
			return redirect(home)
		}
		if role.Level() < info.Scope.Level() {
			return redirect(home)
		}
		return allow()

	case ClassRoleScoped:
		// Higher roles reach lower scoped areas; never the reverse. The
		// redirect target is the principal's own home, so nothing about the
		// forbidden area is disclosed.
		if role.Level() < info.Scope.Level() {
			return redirect(home)
		}
		return allow()

	default:
		// Neutral pages are open to any onboarded principal. Unknown paths
		// count as the principal's own scoped area and fall through to the
		// application's 404 handling.
		return allow()
	}
}
