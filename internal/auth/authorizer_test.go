package auth

import (
	"context"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

type mockPermissionSource struct {
	rows []Permission
	err  error
}

func (m *mockPermissionSource) ListPermissions(_ context.Context) ([]Permission, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.rows, nil
}

var _ = ginkgo.Describe("Authorizer", func() {
	var (
		source     *mockPermissionSource
		authorizer *Authorizer
	)

	ginkgo.BeforeEach(func() {
		source = &mockPermissionSource{
			rows: []Permission{
				{Role: RoleAdmin, Module: ModuleCustomers, CanView: true, CanCreate: true, CanEdit: true, CanDelete: true},
				{Role: RoleAccountant, Module: ModuleInvoices, CanView: true, CanCreate: true, CanEdit: true},
				{Role: RoleSupportStaff, Module: ModuleCustomers, CanView: true},
			},
		}

		var err error
		authorizer, err = NewAuthorizer(context.Background(), source)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
	})

	ginkgo.It("grants exactly the flags in the table", func() {
		gomega.Expect(authorizer.HasPermission(RoleAdmin, ModuleCustomers, ActionDelete)).To(gomega.BeTrue())
		gomega.Expect(authorizer.HasPermission(RoleAccountant, ModuleInvoices, ActionEdit)).To(gomega.BeTrue())
		gomega.Expect(authorizer.HasPermission(RoleAccountant, ModuleInvoices, ActionDelete)).To(gomega.BeFalse())
		gomega.Expect(authorizer.HasPermission(RoleSupportStaff, ModuleCustomers, ActionView)).To(gomega.BeTrue())
		gomega.Expect(authorizer.HasPermission(RoleSupportStaff, ModuleCustomers, ActionEdit)).To(gomega.BeFalse())
	})

	ginkgo.It("denies roles and modules with no row", func() {
		gomega.Expect(authorizer.HasPermission(RoleEmployee, ModuleCustomers, ActionView)).To(gomega.BeFalse())
		gomega.Expect(authorizer.HasPermission(RoleAdmin, ModuleGatePass, ActionView)).To(gomega.BeFalse())
	})

	ginkgo.It("gives super_admin no implicit bypass", func() {
		gomega.Expect(authorizer.HasPermission(RoleSuperAdmin, ModuleCustomers, ActionView)).To(gomega.BeFalse())
	})

	ginkgo.It("denies unknown actions outright", func() {
		gomega.Expect(authorizer.HasPermission(RoleAdmin, ModuleCustomers, Action("approve"))).To(gomega.BeFalse())
	})

	ginkgo.It("picks up table changes on reload", func() {
		gomega.Expect(authorizer.HasPermission(RoleEmployee, ModuleJobCards, ActionCreate)).To(gomega.BeFalse())

		source.rows = append(source.rows, Permission{Role: RoleEmployee, Module: ModuleJobCards, CanView: true, CanCreate: true})
		gomega.Expect(authorizer.Reload(context.Background())).To(gomega.Succeed())
		gomega.Expect(authorizer.HasPermission(RoleEmployee, ModuleJobCards, ActionCreate)).To(gomega.BeTrue())
	})
})
