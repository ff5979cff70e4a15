package flags

const Config = `config`
const Verbose = `verbose`
const VerboseShort = `v`
const Quiet = `quiet`
const QuietShort = `q`
const NoColor = `no-color`
const CreateAssembly = `assembly`
const CreateResult = `result`
const CreateSource = `source`
const CreateReference = `reference`
const CreateSatellite = `satellite`
const CreateKey = `key`
const ConfuseProject = `project`
const ConfuseOutputAssembly = `output-assembly`
const ShowPlain = `plain`
