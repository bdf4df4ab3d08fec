package repository

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ============================================
// In-Memory Repository Implementations (Fallback)
// ============================================

// In-memory User Repository
type inMemoryUserRepository struct {
	users         map[string]*User
	refreshTokens map[string]*RefreshToken
}

func newInMemoryUserRepository() *inMemoryUserRepository {
	return &inMemoryUserRepository{
		users:         make(map[string]*User),
		refreshTokens: make(map[string]*RefreshToken),
	}
}

func (r *inMemoryUserRepository) Create(ctx context.Context, user *User) error {
	user.ID = uuid.New().String()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	r.users[user.ID] = user
	return nil
}

func (r *inMemoryUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, nil
}

func (r *inMemoryUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return nil, nil
}

func (r *inMemoryUserRepository) FindAll(ctx context.Context) ([]*User, error) {
	users := make([]*User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	return users, nil
}

func (r *inMemoryUserRepository) Update(ctx context.Context, user *User) error {
	user.UpdatedAt = time.Now()
	r.users[user.ID] = user
	return nil
}

func (r *inMemoryUserRepository) SaveRefreshToken(ctx context.Context, token *RefreshToken) error {
	token.ID = uuid.New().String()
	token.CreatedAt = time.Now()
	r.refreshTokens[token.Token] = token
	return nil
}

func (r *inMemoryUserRepository) FindRefreshToken(ctx context.Context, token string) (*RefreshToken, error) {
	if rt, ok := r.refreshTokens[token]; ok {
		return rt, nil
	}
	return nil, nil
}

func (r *inMemoryUserRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	delete(r.refreshTokens, token)
	return nil
}

func (r *inMemoryUserRepository) DeleteUserRefreshTokens(ctx context.Context, userID string) error {
	for key, rt := range r.refreshTokens {
		if rt.UserID == userID {
			delete(r.refreshTokens, key)
		}
	}
	return nil
}

// In-memory Organization Repository
type inMemoryOrganizationRepository struct {
	orgs    map[string]*Organization
	members map[string]*OrganizationMember
}

func newInMemoryOrganizationRepository() *inMemoryOrganizationRepository {
	return &inMemoryOrganizationRepository{
		orgs:    make(map[string]*Organization),
		members: make(map[string]*OrganizationMember),
	}
}

func (r *inMemoryOrganizationRepository) Create(ctx context.Context, org *Organization) error {
	org.ID = uuid.New().String()
	org.CreatedAt = time.Now()
	org.UpdatedAt = time.Now()
	r.orgs[org.ID] = org
	return nil
}

func (r *inMemoryOrganizationRepository) FindByID(ctx context.Context, id string) (*Organization, error) {
	if org, ok := r.orgs[id]; ok {
		return org, nil
	}
	return nil, nil
}

func (r *inMemoryOrganizationRepository) FindByUserID(ctx context.Context, userID string) ([]*Organization, error) {
	var orgs []*Organization
	for _, member := range r.members {
		if member.UserID == userID {
			if org, ok := r.orgs[member.OrganizationID]; ok {
				orgs = append(orgs, org)
			}
		}
	}
	return orgs, nil
}

func (r *inMemoryOrganizationRepository) Update(ctx context.Context, org *Organization) error {
	org.UpdatedAt = time.Now()
	r.orgs[org.ID] = org
	return nil
}

func (r *inMemoryOrganizationRepository) Delete(ctx context.Context, id string) error {
	delete(r.orgs, id)
	for key, member := range r.members {
		if member.OrganizationID == id {
			delete(r.members, key)
		}
	}
	return nil
}

func (r *inMemoryOrganizationRepository) AddMember(ctx context.Context, member *OrganizationMember) error {
	member.ID = uuid.New().String()
	member.JoinedAt = time.Now()
	r.members[member.ID] = member
	return nil
}

func (r *inMemoryOrganizationRepository) FindMembers(ctx context.Context, orgID string) ([]*OrganizationMember, error) {
	var members []*OrganizationMember
	for _, member := range r.members {
		if member.OrganizationID == orgID {
			members = append(members, member)
		}
	}
	return members, nil
}

func (r *inMemoryOrganizationRepository) FindMember(ctx context.Context, orgID, userID string) (*OrganizationMember, error) {
	for _, member := range r.members {
		if member.OrganizationID == orgID && member.UserID == userID {
			return member, nil
		}
	}
	return nil, nil
}

func (r *inMemoryOrganizationRepository) UpdateMemberRole(ctx context.Context, orgID, userID string, roleID *string) error {
	for _, member := range r.members {
		if member.OrganizationID == orgID && member.UserID == userID {
			member.RoleID = roleID
		}
	}
	return nil
}

func (r *inMemoryOrganizationRepository) RemoveMember(ctx context.Context, orgID, userID string) error {
	for key, member := range r.members {
		if member.OrganizationID == orgID && member.UserID == userID {
			delete(r.members, key)
		}
	}
	return nil
}

// In-memory Role Repository
type inMemoryRoleRepository struct {
	orgRoles     map[string]*OrganizationRole
	projectRoles map[string]*ProjectRole
}

func newInMemoryRoleRepository() *inMemoryRoleRepository {
	return &inMemoryRoleRepository{
		orgRoles:     make(map[string]*OrganizationRole),
		projectRoles: make(map[string]*ProjectRole),
	}
}

func (r *inMemoryRoleRepository) CreateOrgRole(ctx context.Context, role *OrganizationRole) error {
	role.ID = uuid.New().String()
	role.CreatedAt = time.Now()
	r.orgRoles[role.ID] = role
	return nil
}

func (r *inMemoryRoleRepository) FindOrgRole(ctx context.Context, id string) (*OrganizationRole, error) {
	if role, ok := r.orgRoles[id]; ok {
		return role, nil
	}
	return nil, nil
}

func (r *inMemoryRoleRepository) FindOrgRoleByName(ctx context.Context, orgID, name string) (*OrganizationRole, error) {
	for _, role := range r.orgRoles {
		if role.OrganizationID == orgID && role.Name == name {
			return role, nil
		}
	}
	return nil, nil
}

func (r *inMemoryRoleRepository) FindOrgRoles(ctx context.Context, orgID string) ([]*OrganizationRole, error) {
	var roles []*OrganizationRole
	for _, role := range r.orgRoles {
		if role.OrganizationID == orgID {
			roles = append(roles, role)
		}
	}
	return roles, nil
}

func (r *inMemoryRoleRepository) UpdateOrgRole(ctx context.Context, role *OrganizationRole) error {
	r.orgRoles[role.ID] = role
	return nil
}

func (r *inMemoryRoleRepository) DeleteOrgRole(ctx context.Context, id string) error {
	delete(r.orgRoles, id)
	return nil
}

func (r *inMemoryRoleRepository) CreateProjectRole(ctx context.Context, role *ProjectRole) error {
	role.ID = uuid.New().String()
	role.CreatedAt = time.Now()
	r.projectRoles[role.ID] = role
	return nil
}

func (r *inMemoryRoleRepository) FindProjectRole(ctx context.Context, id string) (*ProjectRole, error) {
	if role, ok := r.projectRoles[id]; ok {
		return role, nil
	}
	return nil, nil
}

func (r *inMemoryRoleRepository) FindProjectRoleByName(ctx context.Context, projectID, name string) (*ProjectRole, error) {
	for _, role := range r.projectRoles {
		if role.ProjectID == projectID && role.Name == name {
			return role, nil
		}
	}
	return nil, nil
}

func (r *inMemoryRoleRepository) FindProjectRoles(ctx context.Context, projectID string) ([]*ProjectRole, error) {
	var roles []*ProjectRole
	for _, role := range r.projectRoles {
		if role.ProjectID == projectID {
			roles = append(roles, role)
		}
	}
	return roles, nil
}

func (r *inMemoryRoleRepository) UpdateProjectRole(ctx context.Context, role *ProjectRole) error {
	r.projectRoles[role.ID] = role
	return nil
}

func (r *inMemoryRoleRepository) DeleteProjectRole(ctx context.Context, id string) error {
	delete(r.projectRoles, id)
	return nil
}

// In-memory Project Repository
type inMemoryProjectRepository struct {
	projects map[string]*Project
	members  map[string]*ProjectMember
}

func newInMemoryProjectRepository() *inMemoryProjectRepository {
	return &inMemoryProjectRepository{
		projects: make(map[string]*Project),
		members:  make(map[string]*ProjectMember),
	}
}

func (r *inMemoryProjectRepository) Create(ctx context.Context, project *Project) error {
	project.ID = uuid.New().String()
	project.CreatedAt = time.Now()
	project.UpdatedAt = time.Now()
	if project.Status == "" {
		project.Status = "active"
	}
	r.projects[project.ID] = project
	return nil
}

func (r *inMemoryProjectRepository) FindByID(ctx context.Context, id string) (*Project, error) {
	if project, ok := r.projects[id]; ok {
		return project, nil
	}
	return nil, nil
}

func (r *inMemoryProjectRepository) FindByOrganizationID(ctx context.Context, orgID string) ([]*Project, error) {
	var projects []*Project
	for _, project := range r.projects {
		if project.OrganizationID == orgID {
			projects = append(projects, project)
		}
	}
	return projects, nil
}

func (r *inMemoryProjectRepository) FindByCode(ctx context.Context, orgID, code string) (*Project, error) {
	for _, project := range r.projects {
		if project.OrganizationID == orgID && project.Code == code {
			return project, nil
		}
	}
	return nil, nil
}

func (r *inMemoryProjectRepository) FindByUserID(ctx context.Context, userID string) ([]*Project, error) {
	var projects []*Project
	for _, member := range r.members {
		if member.UserID == userID {
			if project, ok := r.projects[member.ProjectID]; ok {
				projects = append(projects, project)
			}
		}
	}
	return projects, nil
}

func (r *inMemoryProjectRepository) Update(ctx context.Context, project *Project) error {
	project.UpdatedAt = time.Now()
	r.projects[project.ID] = project
	return nil
}

func (r *inMemoryProjectRepository) Delete(ctx context.Context, id string) error {
	delete(r.projects, id)
	for key, member := range r.members {
		if member.ProjectID == id {
			delete(r.members, key)
		}
	}
	return nil
}

func (r *inMemoryProjectRepository) AddMember(ctx context.Context, member *ProjectMember) error {
	member.ID = uuid.New().String()
	member.JoinedAt = time.Now()
	r.members[member.ID] = member
	return nil
}

func (r *inMemoryProjectRepository) FindMembers(ctx context.Context, projectID string) ([]*ProjectMember, error) {
	var members []*ProjectMember
	for _, member := range r.members {
		if member.ProjectID == projectID {
			members = append(members, member)
		}
	}
	return members, nil
}

func (r *inMemoryProjectRepository) FindMember(ctx context.Context, projectID, userID string) (*ProjectMember, error) {
	for _, member := range r.members {
		if member.ProjectID == projectID && member.UserID == userID {
			return member, nil
		}
	}
	return nil, nil
}

func (r *inMemoryProjectRepository) FindMemberByID(ctx context.Context, memberID string) (*ProjectMember, error) {
	if member, ok := r.members[memberID]; ok {
		return member, nil
	}
	return nil, nil
}

func (r *inMemoryProjectRepository) FindMemberUserIDs(ctx context.Context, projectID string) ([]string, error) {
	var userIDs []string
	for _, member := range r.members {
		if member.ProjectID == projectID {
			userIDs = append(userIDs, member.UserID)
		}
	}
	return userIDs, nil
}

func (r *inMemoryProjectRepository) UpdateMemberRole(ctx context.Context, projectID, userID string, roleID *string) error {
	for _, member := range r.members {
		if member.ProjectID == projectID && member.UserID == userID {
			member.RoleID = roleID
		}
	}
	return nil
}

func (r *inMemoryProjectRepository) RemoveMember(ctx context.Context, projectID, userID string) error {
	for key, member := range r.members {
		if member.ProjectID == projectID && member.UserID == userID {
			delete(r.members, key)
		}
	}
	return nil
}

// In-memory Approval Repository
type inMemoryApprovalRepository struct {
	requests map[string]*ApprovalRequest
	steps    map[string]*ApprovalStep
}

func newInMemoryApprovalRepository() *inMemoryApprovalRepository {
	return &inMemoryApprovalRepository{
		requests: make(map[string]*ApprovalRequest),
		steps:    make(map[string]*ApprovalStep),
	}
}

func (r *inMemoryApprovalRepository) CreateRequest(ctx context.Context, request *ApprovalRequest, steps []*ApprovalStep) error {
	request.ID = uuid.New().String()
	request.CreatedAt = time.Now()
	request.UpdatedAt = time.Now()
	r.requests[request.ID] = request
	for _, step := range steps {
		step.ID = uuid.New().String()
		step.ApprovalRequestID = request.ID
		step.CreatedAt = time.Now()
		r.steps[step.ID] = step
	}
	request.Steps = steps
	return nil
}

func (r *inMemoryApprovalRepository) FindRequestByID(ctx context.Context, id string) (*ApprovalRequest, error) {
	request, ok := r.requests[id]
	if !ok {
		return nil, nil
	}
	steps, _ := r.FindStepsByRequestID(ctx, id)
	request.Steps = steps
	return request, nil
}

func (r *inMemoryApprovalRepository) FindRequestsByProjectID(ctx context.Context, projectID string) ([]*ApprovalRequest, error) {
	var requests []*ApprovalRequest
	for _, request := range r.requests {
		if request.ProjectID == projectID {
			steps, _ := r.FindStepsByRequestID(ctx, request.ID)
			request.Steps = steps
			requests = append(requests, request)
		}
	}
	sort.Slice(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
	return requests, nil
}

func (r *inMemoryApprovalRepository) FindRequestByEntity(ctx context.Context, entityType, entityID string) (*ApprovalRequest, error) {
	var latest *ApprovalRequest
	for _, request := range r.requests {
		if request.EntityType == entityType && request.EntityID == entityID {
			if latest == nil || request.CreatedAt.After(latest.CreatedAt) {
				latest = request
			}
		}
	}
	if latest == nil {
		return nil, nil
	}
	steps, _ := r.FindStepsByRequestID(ctx, latest.ID)
	latest.Steps = steps
	return latest, nil
}

func (r *inMemoryApprovalRepository) FindStalePending(ctx context.Context, olderThan time.Time) ([]*ApprovalRequest, error) {
	var requests []*ApprovalRequest
	for _, request := range r.requests {
		if request.CurrentStatus == "under_review" && request.UpdatedAt.Before(olderThan) {
			steps, _ := r.FindStepsByRequestID(ctx, request.ID)
			request.Steps = steps
			requests = append(requests, request)
		}
	}
	return requests, nil
}

func (r *inMemoryApprovalRepository) UpdateRequestStatus(ctx context.Context, requestID, status string) error {
	if request, ok := r.requests[requestID]; ok {
		request.CurrentStatus = status
		request.UpdatedAt = time.Now()
	}
	return nil
}

func (r *inMemoryApprovalRepository) FindStepByID(ctx context.Context, id string) (*ApprovalStep, error) {
	if step, ok := r.steps[id]; ok {
		return step, nil
	}
	return nil, nil
}

func (r *inMemoryApprovalRepository) FindStepsByRequestID(ctx context.Context, requestID string) ([]*ApprovalStep, error) {
	var steps []*ApprovalStep
	for _, step := range r.steps {
		if step.ApprovalRequestID == requestID {
			steps = append(steps, step)
		}
	}
	sort.Slice(steps, func(i, j int) bool {
		return steps[i].StepOrder < steps[j].StepOrder
	})
	return steps, nil
}

func (r *inMemoryApprovalRepository) UpdateStep(ctx context.Context, step *ApprovalStep) error {
	r.steps[step.ID] = step
	return nil
}

// In-memory Permission Repository
type inMemoryPermissionRepository struct {
	overrides     map[string]*PermissionOverride
	resourcePerms map[string]*ResourcePermission
}

func newInMemoryPermissionRepository() *inMemoryPermissionRepository {
	return &inMemoryPermissionRepository{
		overrides:     make(map[string]*PermissionOverride),
		resourcePerms: make(map[string]*ResourcePermission),
	}
}

func overrideKey(memberID, permission string) string {
	return memberID + ":" + permission
}

func resourcePermKey(memberID, resourceType, resourceID, permission string) string {
	return memberID + ":" + resourceType + ":" + resourceID + ":" + permission
}

func (r *inMemoryPermissionRepository) UpsertOverride(ctx context.Context, override *PermissionOverride) error {
	key := overrideKey(override.ProjectMemberID, override.Permission)
	if existing, ok := r.overrides[key]; ok {
		override.ID = existing.ID
		override.CreatedAt = existing.CreatedAt
	} else {
		override.ID = uuid.New().String()
		override.CreatedAt = time.Now()
	}
	r.overrides[key] = override
	return nil
}

func (r *inMemoryPermissionRepository) FindOverride(ctx context.Context, memberID, permission string) (*PermissionOverride, error) {
	if override, ok := r.overrides[overrideKey(memberID, permission)]; ok {
		return override, nil
	}
	return nil, nil
}

func (r *inMemoryPermissionRepository) FindOverridesByMember(ctx context.Context, memberID string) ([]*PermissionOverride, error) {
	var overrides []*PermissionOverride
	for _, override := range r.overrides {
		if override.ProjectMemberID == memberID {
			overrides = append(overrides, override)
		}
	}
	return overrides, nil
}

func (r *inMemoryPermissionRepository) DeleteOverride(ctx context.Context, memberID, permission string) error {
	delete(r.overrides, overrideKey(memberID, permission))
	return nil
}

func (r *inMemoryPermissionRepository) UpsertResourcePermission(ctx context.Context, perm *ResourcePermission) error {
	key := resourcePermKey(perm.ProjectMemberID, perm.ResourceType, perm.ResourceID, perm.Permission)
	if existing, ok := r.resourcePerms[key]; ok {
		perm.ID = existing.ID
		perm.CreatedAt = existing.CreatedAt
	} else {
		perm.ID = uuid.New().String()
		perm.CreatedAt = time.Now()
	}
	r.resourcePerms[key] = perm
	return nil
}

func (r *inMemoryPermissionRepository) FindResourcePermission(ctx context.Context, memberID, resourceType, resourceID, permission string) (*ResourcePermission, error) {
	if perm, ok := r.resourcePerms[resourcePermKey(memberID, resourceType, resourceID, permission)]; ok {
		return perm, nil
	}
	return nil, nil
}

func (r *inMemoryPermissionRepository) FindResourcePermissionsByMember(ctx context.Context, memberID string) ([]*ResourcePermission, error) {
	var perms []*ResourcePermission
	for _, perm := range r.resourcePerms {
		if perm.ProjectMemberID == memberID {
			perms = append(perms, perm)
		}
	}
	return perms, nil
}

func (r *inMemoryPermissionRepository) DeleteResourcePermission(ctx context.Context, memberID, resourceType, resourceID, permission string) error {
	delete(r.resourcePerms, resourcePermKey(memberID, resourceType, resourceID, permission))
	return nil
}

// In-memory Submittal Repository
type inMemorySubmittalRepository struct {
	submittals map[string]*Submittal
}

func newInMemorySubmittalRepository() *inMemorySubmittalRepository {
	return &inMemorySubmittalRepository{submittals: make(map[string]*Submittal)}
}

func (r *inMemorySubmittalRepository) Create(ctx context.Context, submittal *Submittal) error {
	submittal.ID = uuid.New().String()
	submittal.CreatedAt = time.Now()
	submittal.UpdatedAt = time.Now()
	if submittal.Status == "" {
		submittal.Status = "draft"
	}
	if submittal.Quantity == 0 {
		submittal.Quantity = 1
	}
	r.submittals[submittal.ID] = submittal
	return nil
}

func (r *inMemorySubmittalRepository) FindByID(ctx context.Context, id string) (*Submittal, error) {
	if submittal, ok := r.submittals[id]; ok {
		return submittal, nil
	}
	return nil, nil
}

func (r *inMemorySubmittalRepository) FindByProjectID(ctx context.Context, projectID string) ([]*Submittal, error) {
	var submittals []*Submittal
	for _, submittal := range r.submittals {
		if submittal.ProjectID == projectID {
			submittals = append(submittals, submittal)
		}
	}
	return submittals, nil
}

func (r *inMemorySubmittalRepository) Update(ctx context.Context, submittal *Submittal) error {
	submittal.UpdatedAt = time.Now()
	r.submittals[submittal.ID] = submittal
	return nil
}

func (r *inMemorySubmittalRepository) UpdateStatus(ctx context.Context, id, status string) error {
	if submittal, ok := r.submittals[id]; ok {
		submittal.Status = status
		submittal.UpdatedAt = time.Now()
	}
	return nil
}

func (r *inMemorySubmittalRepository) Delete(ctx context.Context, id string) error {
	delete(r.submittals, id)
	return nil
}

// In-memory Inspection Repository
type inMemoryInspectionRepository struct {
	inspections map[string]*Inspection
}

func newInMemoryInspectionRepository() *inMemoryInspectionRepository {
	return &inMemoryInspectionRepository{inspections: make(map[string]*Inspection)}
}

func (r *inMemoryInspectionRepository) Create(ctx context.Context, inspection *Inspection) error {
	inspection.ID = uuid.New().String()
	inspection.CreatedAt = time.Now()
	inspection.UpdatedAt = time.Now()
	if inspection.Status == "" {
		inspection.Status = "scheduled"
	}
	r.inspections[inspection.ID] = inspection
	return nil
}

func (r *inMemoryInspectionRepository) FindByID(ctx context.Context, id string) (*Inspection, error) {
	if inspection, ok := r.inspections[id]; ok {
		return inspection, nil
	}
	return nil, nil
}

func (r *inMemoryInspectionRepository) FindByProjectID(ctx context.Context, projectID string) ([]*Inspection, error) {
	var inspections []*Inspection
	for _, inspection := range r.inspections {
		if inspection.ProjectID == projectID {
			inspections = append(inspections, inspection)
		}
	}
	return inspections, nil
}

func (r *inMemoryInspectionRepository) FindUpcoming(ctx context.Context, within time.Duration) ([]*Inspection, error) {
	cutoff := time.Now().Add(within)
	var inspections []*Inspection
	for _, inspection := range r.inspections {
		if inspection.Status == "scheduled" && inspection.ScheduledFor.After(time.Now()) && inspection.ScheduledFor.Before(cutoff) {
			inspections = append(inspections, inspection)
		}
	}
	return inspections, nil
}

func (r *inMemoryInspectionRepository) Update(ctx context.Context, inspection *Inspection) error {
	inspection.UpdatedAt = time.Now()
	r.inspections[inspection.ID] = inspection
	return nil
}

func (r *inMemoryInspectionRepository) Delete(ctx context.Context, id string) error {
	delete(r.inspections, id)
	return nil
}

// In-memory RFI Repository
type inMemoryRFIRepository struct {
	rfis map[string]*RFI
}

func newInMemoryRFIRepository() *inMemoryRFIRepository {
	return &inMemoryRFIRepository{rfis: make(map[string]*RFI)}
}

func (r *inMemoryRFIRepository) Create(ctx context.Context, rfi *RFI) error {
	rfi.ID = uuid.New().String()
	rfi.CreatedAt = time.Now()
	rfi.UpdatedAt = time.Now()
	if rfi.Status == "" {
		rfi.Status = "open"
	}
	r.rfis[rfi.ID] = rfi
	return nil
}

func (r *inMemoryRFIRepository) FindByID(ctx context.Context, id string) (*RFI, error) {
	if rfi, ok := r.rfis[id]; ok {
		return rfi, nil
	}
	return nil, nil
}

func (r *inMemoryRFIRepository) FindByProjectID(ctx context.Context, projectID string) ([]*RFI, error) {
	var rfis []*RFI
	for _, rfi := range r.rfis {
		if rfi.ProjectID == projectID {
			rfis = append(rfis, rfi)
		}
	}
	sort.Slice(rfis, func(i, j int) bool { return rfis[i].Number < rfis[j].Number })
	return rfis, nil
}

func (r *inMemoryRFIRepository) FindOverdue(ctx context.Context) ([]*RFI, error) {
	var rfis []*RFI
	for _, rfi := range r.rfis {
		if rfi.Status == "open" && rfi.DueDate != nil && rfi.DueDate.Before(time.Now()) {
			rfis = append(rfis, rfi)
		}
	}
	return rfis, nil
}

func (r *inMemoryRFIRepository) NextNumber(ctx context.Context, projectID string) (int, error) {
	max := 0
	for _, rfi := range r.rfis {
		if rfi.ProjectID == projectID && rfi.Number > max {
			max = rfi.Number
		}
	}
	return max + 1, nil
}

func (r *inMemoryRFIRepository) Update(ctx context.Context, rfi *RFI) error {
	rfi.UpdatedAt = time.Now()
	r.rfis[rfi.ID] = rfi
	return nil
}

func (r *inMemoryRFIRepository) Delete(ctx context.Context, id string) error {
	delete(r.rfis, id)
	return nil
}

// In-memory Meeting Repository
type inMemoryMeetingRepository struct {
	meetings map[string]*Meeting
}

func newInMemoryMeetingRepository() *inMemoryMeetingRepository {
	return &inMemoryMeetingRepository{meetings: make(map[string]*Meeting)}
}

func (r *inMemoryMeetingRepository) Create(ctx context.Context, meeting *Meeting) error {
	meeting.ID = uuid.New().String()
	meeting.CreatedAt = time.Now()
	meeting.UpdatedAt = time.Now()
	if meeting.AttendeeIDs == nil {
		meeting.AttendeeIDs = []string{}
	}
	r.meetings[meeting.ID] = meeting
	return nil
}

func (r *inMemoryMeetingRepository) FindByID(ctx context.Context, id string) (*Meeting, error) {
	if meeting, ok := r.meetings[id]; ok {
		return meeting, nil
	}
	return nil, nil
}

func (r *inMemoryMeetingRepository) FindByProjectID(ctx context.Context, projectID string) ([]*Meeting, error) {
	var meetings []*Meeting
	for _, meeting := range r.meetings {
		if meeting.ProjectID == projectID {
			meetings = append(meetings, meeting)
		}
	}
	return meetings, nil
}

func (r *inMemoryMeetingRepository) Update(ctx context.Context, meeting *Meeting) error {
	meeting.UpdatedAt = time.Now()
	r.meetings[meeting.ID] = meeting
	return nil
}

func (r *inMemoryMeetingRepository) Delete(ctx context.Context, id string) error {
	delete(r.meetings, id)
	return nil
}

// In-memory Task Repository
type inMemoryTaskRepository struct {
	tasks map[string]*Task
}

func newInMemoryTaskRepository() *inMemoryTaskRepository {
	return &inMemoryTaskRepository{tasks: make(map[string]*Task)}
}

func (r *inMemoryTaskRepository) Create(ctx context.Context, task *Task) error {
	task.ID = uuid.New().String()
	task.CreatedAt = time.Now()
	task.UpdatedAt = time.Now()
	if task.Status == "" {
		task.Status = "open"
	}
	if task.Priority == "" {
		task.Priority = "medium"
	}
	r.tasks[task.ID] = task
	return nil
}

func (r *inMemoryTaskRepository) FindByID(ctx context.Context, id string) (*Task, error) {
	if task, ok := r.tasks[id]; ok {
		return task, nil
	}
	return nil, nil
}

func (r *inMemoryTaskRepository) FindByProjectID(ctx context.Context, projectID string) ([]*Task, error) {
	var tasks []*Task
	for _, task := range r.tasks {
		if task.ProjectID == projectID {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (r *inMemoryTaskRepository) FindByAssignee(ctx context.Context, assigneeID string) ([]*Task, error) {
	var tasks []*Task
	for _, task := range r.tasks {
		if task.AssigneeID != nil && *task.AssigneeID == assigneeID {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (r *inMemoryTaskRepository) Update(ctx context.Context, task *Task) error {
	task.UpdatedAt = time.Now()
	r.tasks[task.ID] = task
	return nil
}

func (r *inMemoryTaskRepository) Delete(ctx context.Context, id string) error {
	delete(r.tasks, id)
	return nil
}

// In-memory Document Repository
type inMemoryDocumentRepository struct {
	documents map[string]*Document
}

func newInMemoryDocumentRepository() *inMemoryDocumentRepository {
	return &inMemoryDocumentRepository{documents: make(map[string]*Document)}
}

func (r *inMemoryDocumentRepository) Create(ctx context.Context, doc *Document) error {
	doc.ID = uuid.New().String()
	doc.CreatedAt = time.Now()
	if doc.Version == 0 {
		doc.Version = 1
	}
	r.documents[doc.ID] = doc
	return nil
}

func (r *inMemoryDocumentRepository) FindByID(ctx context.Context, id string) (*Document, error) {
	if doc, ok := r.documents[id]; ok {
		return doc, nil
	}
	return nil, nil
}

func (r *inMemoryDocumentRepository) FindByProjectID(ctx context.Context, projectID string) ([]*Document, error) {
	var docs []*Document
	for _, doc := range r.documents {
		if doc.ProjectID == projectID {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func (r *inMemoryDocumentRepository) NextVersion(ctx context.Context, projectID, fileName string) (int, error) {
	max := 0
	for _, doc := range r.documents {
		if doc.ProjectID == projectID && doc.FileName == fileName && doc.Version > max {
			max = doc.Version
		}
	}
	return max + 1, nil
}

func (r *inMemoryDocumentRepository) Delete(ctx context.Context, id string) error {
	delete(r.documents, id)
	return nil
}

// In-memory Notification Repository
type inMemoryNotificationRepository struct {
	notifications map[string]*Notification
}

func newInMemoryNotificationRepository() *inMemoryNotificationRepository {
	return &inMemoryNotificationRepository{notifications: make(map[string]*Notification)}
}

func (r *inMemoryNotificationRepository) Create(ctx context.Context, notification *Notification) error {
	notification.ID = uuid.New().String()
	notification.CreatedAt = time.Now()
	r.notifications[notification.ID] = notification
	return nil
}

func (r *inMemoryNotificationRepository) FindByID(ctx context.Context, id string) (*Notification, error) {
	if notification, ok := r.notifications[id]; ok {
		return notification, nil
	}
	return nil, nil
}

func (r *inMemoryNotificationRepository) FindByUserID(ctx context.Context, userID string, unreadOnly bool) ([]*Notification, error) {
	var notifications []*Notification
	for _, notification := range r.notifications {
		if notification.UserID == userID && (!unreadOnly || !notification.Read) {
			notifications = append(notifications, notification)
		}
	}
	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	return notifications, nil
}

func (r *inMemoryNotificationRepository) CountByUserID(ctx context.Context, userID string) (int, int, error) {
	total, unread := 0, 0
	for _, notification := range r.notifications {
		if notification.UserID == userID {
			total++
			if !notification.Read {
				unread++
			}
		}
	}
	return total, unread, nil
}

func (r *inMemoryNotificationRepository) MarkAsRead(ctx context.Context, id string) error {
	if notification, ok := r.notifications[id]; ok {
		notification.Read = true
	}
	return nil
}

func (r *inMemoryNotificationRepository) MarkAllAsRead(ctx context.Context, userID string) error {
	for _, notification := range r.notifications {
		if notification.UserID == userID {
			notification.Read = true
		}
	}
	return nil
}

func (r *inMemoryNotificationRepository) Delete(ctx context.Context, id string) error {
	delete(r.notifications, id)
	return nil
}

func (r *inMemoryNotificationRepository) DeleteAll(ctx context.Context, userID string) error {
	for key, notification := range r.notifications {
		if notification.UserID == userID {
			delete(r.notifications, key)
		}
	}
	return nil
}

func (r *inMemoryNotificationRepository) DeleteOlderThan(ctx context.Context, olderThan time.Time, readOnly bool) (int, error) {
	deleted := 0
	for key, notification := range r.notifications {
		if notification.CreatedAt.Before(olderThan) && (!readOnly || notification.Read) {
			delete(r.notifications, key)
			deleted++
		}
	}
	return deleted, nil
}
