package session

// Tree identifies which command tree the console mounts
type Tree int

const (
	// TreeLoading mounts nothing; a neutral loading indicator is shown
	TreeLoading Tree = iota
	TreeUnauthenticated
	TreeSuperAdmin
	TreeNormalAdmin
)

func (t Tree) String() string {
	switch t {
	case TreeLoading:
		return "loading"
	case TreeUnauthenticated:
		return "sign-in"
	case TreeSuperAdmin:
		return "super-admin"
	case TreeNormalAdmin:
		return "normal-admin"
	default:
		return "unknown"
	}
}

// Route selects the tree for s. The first matching rule wins:
// bootstrapping, then missing token, then super admin, then normal admin.
func Route(s Session) Tree {
	switch {
	case s.Bootstrapping:
		return TreeLoading
	case s.Token == "":
		return TreeUnauthenticated
	case s.Role == RoleSuperAdmin:
		return TreeSuperAdmin
	default:
		return TreeNormalAdmin
	}
}
