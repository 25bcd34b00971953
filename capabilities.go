package drawhost

import "github.com/reglet-dev/drawhost/capability"

// Capability names, one per Services method. Property getters carry the
// get_ prefix the engine reports them under.
const (
	CapFindFile           capability.Name = "FindFile"
	CapGetPassword        capability.Name = "GetPassword"
	CapGetRemoteFile      capability.Name = "GetRemoteFile"
	CapGetURL             capability.Name = "GetURL"
	CapIsURL              capability.Name = "IsURL"
	CapLoadApplication    capability.Name = "LoadApplication"
	CapPutRemoteFile      capability.Name = "PutRemoteFile"
	CapAlternateFontName  capability.Name = "get_AlternateFontName"
	CapCompanyName        capability.Name = "get_CompanyName"
	CapFontMapFileName    capability.Name = "get_FontMapFileName"
	CapLocalRootFolder    capability.Name = "get_LocalRootFolder"
	CapMachineRootKey     capability.Name = "get_MachineRegistryProductRootKey"
	CapModelerFlavor      capability.Name = "get_ModelerFlavor"
	CapProduct            capability.Name = "get_Product"
	CapProgram            capability.Name = "get_Program"
	CapRoamableRootFolder capability.Name = "get_RoamableRootFolder"
	CapUserRootKey        capability.Name = "get_UserRegistryProductRootKey"
)

var shapes = map[capability.Name]capability.Shape{
	CapFindFile:           capability.Branching,
	CapAlternateFontName:  capability.Branching,
	CapMachineRootKey:     capability.Branching,
	CapUserRootKey:        capability.Branching,
	CapGetPassword:        capability.PassThroughLogged,
	CapGetRemoteFile:      capability.PassThroughLogged,
	CapCompanyName:        capability.PassThroughLogged,
	CapFontMapFileName:    capability.PassThroughLogged,
	CapLocalRootFolder:    capability.PassThroughLogged,
	CapProduct:            capability.PassThroughLogged,
	CapProgram:            capability.PassThroughLogged,
	CapRoamableRootFolder: capability.PassThroughLogged,
	CapGetURL:             capability.PassThroughSilent,
	CapIsURL:              capability.PassThroughSilent,
	CapLoadApplication:    capability.PassThroughSilent,
	CapPutRemoteFile:      capability.PassThroughSilent,
	CapModelerFlavor:      capability.PassThroughSilent,
}

// Surface lists every capability the adapter declares, in declaration order.
func Surface() []capability.Name {
	return []capability.Name{
		CapFindFile,
		CapGetPassword,
		CapGetRemoteFile,
		CapGetURL,
		CapIsURL,
		CapLoadApplication,
		CapPutRemoteFile,
		CapAlternateFontName,
		CapCompanyName,
		CapFontMapFileName,
		CapLocalRootFolder,
		CapMachineRootKey,
		CapModelerFlavor,
		CapProduct,
		CapProgram,
		CapRoamableRootFolder,
		CapUserRootKey,
	}
}

// Classify returns how the adapter handles a capability. Names outside
// Surface() are reported as pass-through-silent with ok false.
func Classify(name capability.Name) (shape capability.Shape, ok bool) {
	shape, ok = shapes[name]
	if !ok {
		return capability.PassThroughSilent, false
	}
	return shape, true
}
