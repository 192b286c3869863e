// Package auth provides authentication and authorization for the console.
//
// Authentication supports three sources: local database accounts (argon2id
// password hashes), OpenID Connect, and LDAP/Active Directory. All three
// resolve to the same user record.
//
// Authorization is role based. The four roles form a strict total order
// (viewer < contributor < admin < super_admin) and every capability is
// derived from the role through the canonical AtLeast comparison defined in
// this package. External directory groups can map to roles; a user's
// effective role is the highest of the direct role and all mapped roles.
package auth
